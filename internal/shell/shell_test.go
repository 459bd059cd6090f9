package shell

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupported(t *testing.T) {
	assert.Equal(t, []string{"bash", "fish", "powershell", "zsh"}, Supported())
}

func TestScriptsWireTheCLI(t *testing.T) {
	for _, sh := range Supported() {
		t.Run(sh, func(t *testing.T) {
			script, err := Script(sh)
			require.NoError(t, err)

			assert.Contains(t, script, "burrow bookmark get")
			assert.Contains(t, script, "burrow query --ancestor")
			assert.Contains(t, script, "burrow query --suggest")
			assert.Contains(t, script, "burrow config get ui.fzf_options")
			assert.NotContains(t, script, "{{")
			assert.NotContains(t, script, "<no value>")
		})
	}
}

func TestScriptDefinesFunctions(t *testing.T) {
	cases := map[string][]string{
		"bash":       {"b() {", "bb() {", "PROMPT_COMMAND", "complete -o dirnames -F __b_complete b"},
		"zsh":        {"b() {", "bb() {", "chpwd_functions", "compdef __b_complete b"},
		"fish":       {"function b ", "function bb ", "--on-variable PWD", "complete -c b"},
		"powershell": {"function global:b {", "function global:bb {", "function global:prompt", "Register-ArgumentCompleter"},
	}
	for sh, wants := range cases {
		script, err := Script(sh)
		require.NoError(t, err, sh)
		for _, w := range wants {
			assert.Contains(t, script, w, "%s script", sh)
		}
	}
}

func TestHookRunsInBackground(t *testing.T) {
	for _, sh := range []string{"bash", "zsh", "fish"} {
		script, err := Script(sh)
		require.NoError(t, err)
		assert.Contains(t, script, `add "$PWD" >/dev/null 2>&1 &`, sh)
	}

	script, err := Script("powershell")
	require.NoError(t, err)
	assert.Contains(t, script, "Start-Process -FilePath burrow -ArgumentList @('add', $cwd)")
}

func TestRenderCustomNames(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, "bash", Names{Bin: "burrowdev", Func: "j", Bookmark: "jb"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "j() {")
	assert.Contains(t, out, "jb() {")
	assert.Contains(t, out, "command burrowdev query")
	assert.Contains(t, out, "__burrowdev_hook")
}

func TestRenderNormalisesShellName(t *testing.T) {
	script, err := Script("  ZSH ")
	require.NoError(t, err)
	assert.Contains(t, script, "chpwd_functions")
}

func TestUnsupportedShell(t *testing.T) {
	for _, sh := range []string{"tcsh", "", "bash.tmpl"} {
		_, err := Script(sh)
		require.Error(t, err, sh)
		assert.True(t, errors.Is(err, ErrUnsupported))
		assert.True(t, strings.Contains(err.Error(), "bash, fish, powershell, zsh"))
	}
}
