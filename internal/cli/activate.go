package cli

import (
	"io"

	"github.com/spf13/cobra"
)

func newActivateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activate",
		Short: "Print the shell wrapper that lets " + appName + " cd into the new app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			io.WriteString(cmd.OutOrStdout(), wrapperScript)
			return nil
		},
	}
	return cmd
}

// wrapperScript shadows the binary with a shell function. The binary cannot
// move its parent shell, so on success it writes the new app's root to a
// scratch file and the function cds there.
const wrapperScript = `# create-terra-react-app shell integration
# Runs the real binary, then cds into the app it just created.
create-terra-react-app() {
  local _ctra_app_dir_file
  _ctra_app_dir_file="$(mktemp "${TMPDIR:-/tmp}/ctra-app.XXXXXX")" || return 1
  CTRA_WRAPPER_ACTIVE=1 CTRA_INSTRUCTION_FILE="$_ctra_app_dir_file" command create-terra-react-app "$@"
  local _ctra_status=$?
  local _ctra_app_dir=""
  if [ -s "$_ctra_app_dir_file" ]; then
    _ctra_app_dir="$(cat "$_ctra_app_dir_file")"
  fi
  rm -f "$_ctra_app_dir_file"
  if [ $_ctra_status -eq 0 ] && [ -d "$_ctra_app_dir" ]; then
    builtin cd "$_ctra_app_dir" && printf 'Now in %s\n' "$_ctra_app_dir"
  fi
  return $_ctra_status
}
`
