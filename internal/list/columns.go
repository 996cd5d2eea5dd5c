package list

// ColumnID is the logical identifier of each column in display order.
type ColumnID int

const (
	ColGutter ColumnID = iota
	ColBranch
	ColStatus
	ColMain
	ColPath
	ColRemote
	ColURL
	ColCI
	ColDiff
	ColConflict
	ColCommit
	ColAge
	ColMessage
	columnCount
)

// columnSpec is the static metadata of one column.
type columnSpec struct {
	id     ColumnID
	header string
	// fixedWidth is used for columns whose data arrives after layout is
	// frozen; zero means the width comes from Phase-1 data.
	fixedWidth int
	optional   bool
}

// columnSpecs is the registry, in display order. Optional columns are
// allocated in this same order under width pressure (Path before URL
// before CI before the diff columns).
var columnSpecs = [columnCount]columnSpec{
	{id: ColGutter, header: "", fixedWidth: 1},
	{id: ColBranch, header: "Branch"},
	{id: ColStatus, header: "Status", fixedWidth: 8},
	{id: ColMain, header: "Main", fixedWidth: 9},
	{id: ColPath, header: "Path", optional: true},
	{id: ColRemote, header: "Remote", fixedWidth: 14},
	{id: ColURL, header: "URL", optional: true},
	{id: ColCI, header: "CI", fixedWidth: 4, optional: true},
	{id: ColDiff, header: "+/-", fixedWidth: 11, optional: true},
	{id: ColConflict, header: "Merge", fixedWidth: 5, optional: true},
	{id: ColCommit, header: "Commit", fixedWidth: 8},
	{id: ColAge, header: "Age"},
	{id: ColMessage, header: "Message"},
}

// hideOrder is the sequence in which columns give way when the terminal is
// too narrow. Branch, Status and the gutter always remain.
var hideOrder = []ColumnID{
	ColConflict, ColDiff, ColCI, ColURL, ColRemote, ColMain,
	ColMessage, ColPath, ColAge, ColCommit,
}
