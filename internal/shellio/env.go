package shellio

import (
	"os"
	"strings"
)

// DirectiveFileEnv names the file the in-shell wrapper sources after the
// binary exits. When unset, directives are discarded and commands fall back
// to child-process execution.
const DirectiveFileEnv = "WORKTRUNK_DIRECTIVE_FILE"

// BinOverrideEnv lets the shell wrapper target a development build instead
// of the installed binary.
const BinOverrideEnv = "WORKTRUNK_BIN"

// HomeOverrideEnv redirects user-level paths in tests.
const HomeOverrideEnv = "WORKTRUNK_HOME"

func EnvFlagEnabled(name string) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(name)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// HomeDir resolves the user's home directory, honoring the test override.
func HomeDir() (string, error) {
	if home := strings.TrimSpace(os.Getenv(HomeOverrideEnv)); home != "" {
		return home, nil
	}
	return os.UserHomeDir()
}
