package facts

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// Forge aggregates pull-request and CI data from the code-forge CLI (`gh`).
// One process-wide fetch serves every branch's collectors; a missing CLI
// yields no data rather than an error.
type Forge struct {
	repoRoot string

	once     sync.Once
	prs      map[string]forgePR
	fetchErr error
}

type forgePR struct {
	Number            int          `json:"number"`
	URL               string       `json:"url"`
	HeadRefName       string       `json:"headRefName"`
	State             string       `json:"state"`
	MergedAt          string       `json:"mergedAt"`
	StatusCheckRollup []forgeCheck `json:"statusCheckRollup"`
}

type forgeCheck struct {
	Conclusion string `json:"conclusion"`
	Status     string `json:"status"`
}

func NewForge(repoRoot string) *Forge {
	return &Forge{repoRoot: repoRoot}
}

func (f *Forge) fetch() {
	ghPath, err := exec.LookPath("gh")
	if err != nil {
		// No forge CLI installed: every branch reports "no PR".
		f.prs = map[string]forgePR{}
		return
	}
	cmd := exec.Command(ghPath, "pr", "list",
		"--state", "all",
		"--json", "number,url,headRefName,state,mergedAt,statusCheckRollup",
		"--limit", "200")
	cmd.Dir = f.repoRoot
	out, err := cmd.Output()
	if err != nil {
		f.fetchErr = fmt.Errorf("gh pr list: %w", err)
		return
	}
	var prs []forgePR
	if err := json.Unmarshal(out, &prs); err != nil {
		f.fetchErr = fmt.Errorf("gh pr list: %w", err)
		return
	}
	f.prs = make(map[string]forgePR, len(prs))
	for _, pr := range prs {
		branch := strings.TrimSpace(pr.HeadRefName)
		if branch == "" {
			continue
		}
		// gh returns newest first; keep the first PR seen per branch.
		if _, ok := f.prs[branch]; !ok {
			f.prs[branch] = pr
		}
	}
}

// PRForBranch returns the branch's PR info. ok=false means no PR (or no
// forge CLI); err is reserved for a failed fetch.
func (f *Forge) PRForBranch(branch string) (PRInfo, bool, error) {
	f.once.Do(f.fetch)
	if f.fetchErr != nil {
		return PRInfo{}, false, f.fetchErr
	}
	pr, ok := f.prs[branch]
	if !ok {
		return PRInfo{}, false, nil
	}
	_, done, total := summarizeChecks(pr.StatusCheckRollup)
	return PRInfo{
		State:        normalizePRState(pr.State, pr.MergedAt),
		ChecksPassed: done,
		ChecksTotal:  total,
		URL:          strings.TrimSpace(pr.URL),
	}, true, nil
}

// CIForBranch summarizes the branch's check rollup into the pipeline enum.
func (f *Forge) CIForBranch(branch string) (CIState, error) {
	f.once.Do(f.fetch)
	if f.fetchErr != nil {
		return CINone, f.fetchErr
	}
	pr, ok := f.prs[branch]
	if !ok {
		return CINone, nil
	}
	state, _, _ := summarizeChecks(pr.StatusCheckRollup)
	return state, nil
}

func normalizePRState(state, mergedAt string) string {
	if strings.TrimSpace(mergedAt) != "" {
		return "merged"
	}
	switch strings.ToUpper(strings.TrimSpace(state)) {
	case "OPEN":
		return "open"
	case "CLOSED":
		return "closed"
	case "MERGED":
		return "merged"
	default:
		return ""
	}
}

func summarizeChecks(checks []forgeCheck) (CIState, int, int) {
	if len(checks) == 0 {
		return CINone, 0, 0
	}
	total := 0
	completed := 0
	inProgress := false
	failed := false
	for _, c := range checks {
		status := strings.ToUpper(strings.TrimSpace(c.Status))
		conclusion := strings.ToUpper(strings.TrimSpace(c.Conclusion))
		if status == "" && conclusion == "" {
			continue
		}
		total++
		if conclusion != "" {
			completed++
			switch conclusion {
			case "SUCCESS", "SKIPPED", "NEUTRAL":
			default:
				failed = true
			}
		} else {
			inProgress = true
		}
		if status != "" && status != "COMPLETED" {
			inProgress = true
		}
	}
	if total == 0 {
		return CINone, 0, 0
	}
	if failed {
		return CIFail, completed, total
	}
	if inProgress || completed < total {
		return CIInProgress, completed, total
	}
	return CISuccess, completed, total
}
