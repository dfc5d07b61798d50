package cli

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/brandonbloom/create-terra-react-app/internal/toolstub"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		appName: Main,
		"npx":   toolstub.Npx,
		"yarn":  toolstub.Yarn,
		"git":   toolstub.Git,
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(e *testscript.Env) error {
			e.Setenv("CTRA_STUB_LOG", e.WorkDir+"/calls")
			e.Setenv("CTRA_WRAPPER_ACTIVE", "")
			e.Setenv("CTRA_INSTRUCTION_FILE", "")
			return nil
		},
	})
}
