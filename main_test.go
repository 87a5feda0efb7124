package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/semihalev/ucache/cache"
	"github.com/semihalev/ucache/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dump = "START_RRSET_CACHE\n" +
	"www.example.com.\t3600\tIN\tCNAME\tweb.example.net.\n" +
	"web.example.net.\t3600\tIN\tA\t192.0.2.10\n" +
	"web.example.net.\t3600\tIN\tAAAA\t2001:db8::10\n" +
	"mail.example.com.\t3600\tIN\tMX\t10 mx.example.com.\n" +
	"END_RRSET_CACHE\n" +
	"START_MSG_CACHE\n" +
	"END_MSG_CACHE\n" +
	"EOF\n"

func run(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	code := execute(root)

	return code, stdout.String(), stderr.String()
}

func Test_Hosts(t *testing.T) {
	code, out, _ := run(t, dump, "-r", "-t", "CNAME", "-p", "hosts",
		"-f", `name:www\.`, "-f", "type:A", "-f", "type:AAAA", "-f", "or", "-f", "and")

	assert.Equal(t, 0, code)
	assert.ElementsMatch(t, []string{"192.0.2.10\twww.example.com", "2001:db8::10\twww.example.com"},
		strings.Split(strings.TrimSpace(out), "\n"))
}

func Test_SnapshotRoundTrip(t *testing.T) {
	snap := filepath.Join(t.TempDir(), "cache.snap")

	code, out, _ := run(t, dump, "-r", "-s", snap)
	require.Equal(t, 0, code)
	assert.Empty(t, out)

	s, err := cache.Load(snap)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())

	code, out, _ = run(t, "", "-l", snap, "-p", "unbound_local", "-f", "type:MX")
	require.Equal(t, 0, code)
	assert.Equal(t, "unbound-control local_data \"mail.example.com. IN MX 10 mx.example.com.\"\n", out)
}

func Test_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "ucache.toml")

	code, _, _ := run(t, "", "config", cfgFile)
	require.Equal(t, 0, code)

	content, err := os.ReadFile(cfgFile)
	require.NoError(t, err)
	content = bytes.Replace(content, []byte(`printer = ""`), []byte(`printer = "unbound_local_remove"`), 1)
	require.NoError(t, os.WriteFile(cfgFile, content, 0o600))

	code, out, _ := run(t, dump, "-c", cfgFile, "-r", "-f", "type:MX")
	require.Equal(t, 0, code)
	assert.Equal(t, "unbound-control local_data_remove \"mail.example.com.\"\n", out)

	// flags win over the file
	code, out, _ = run(t, dump, "-c", cfgFile, "-r", "-f", "type:MX", "-p", "hosts")
	require.Equal(t, 0, code)
	assert.Empty(t, out)
}

func Test_ConfigurationErrors(t *testing.T) {
	tests := [][]string{
		{"-p", "xml"},
		{"-t", "DNAME"},
		{"-f", "and"},
		{"-f", "type:A", "-f", "type:AAAA"},
		{"-f", "bogus:1"},
		{"--loglevel", "loud"},
		{"--no-such-flag"},
		{"positional"},
		{"-d", "-1"},
	}

	for _, args := range tests {
		snap := filepath.Join(t.TempDir(), "never.snap")

		code, out, errOut := run(t, dump, append(args, "-r", "-s", snap)...)
		assert.Equal(t, 1, code, args)
		assert.Empty(t, out, args)
		assert.Contains(t, errOut, "Usage:", args)

		_, err := os.Stat(snap)
		assert.True(t, os.IsNotExist(err), "no I/O on configuration errors %v", args)
	}
}

func Test_Usage(t *testing.T) {
	for _, flag := range []string{"-h", "--help"} {
		snap := filepath.Join(t.TempDir(), "never.snap")

		code, out, errOut := run(t, dump, flag, "-r", "-p", "hosts", "-s", snap)
		assert.Equal(t, 1, code, flag)
		assert.Empty(t, out, flag)
		assert.Contains(t, errOut, "Usage:", flag)
		assert.Contains(t, errOut, "unbound_cache", flag)

		_, err := os.Stat(snap)
		assert.True(t, os.IsNotExist(err), "no I/O when usage is printed %s", flag)
	}
}

func Test_SubcommandHelp(t *testing.T) {
	code, out, errOut := run(t, "", "version", "--help")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Usage:")
}

func Test_IOError(t *testing.T) {
	code, _, _ := run(t, "", "-l", filepath.Join(t.TempDir(), "missing.snap"))
	assert.Equal(t, 1, code)

	code, _, _ = run(t, "header\nshort line\n", "-r")
	assert.Equal(t, 1, code)
}

func Test_Version(t *testing.T) {
	code, out, _ := run(t, "", "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "ucache v"+version+"\n", out)
}

func Test_MaxDepth(t *testing.T) {
	var b strings.Builder
	b.WriteString("START_RRSET_CACHE\n")
	b.WriteString("a.example. 60 IN CNAME b.example.\n")
	b.WriteString("b.example. 60 IN CNAME c.example.\n")
	b.WriteString("c.example. 60 IN A 192.0.2.1\n")

	code, out, _ := run(t, b.String(), "-r", "-t", "CNAME", "-d", "1", "-f", "name:a", "-p", "hosts")
	require.Equal(t, 0, code)
	assert.Empty(t, out)

	code, out, _ = run(t, b.String(), "-r", "-t", "CNAME", "-d", "2", "-f", "name:a", "-p", "hosts")
	require.Equal(t, 0, code)
	assert.Equal(t, record.New("a.example.", "A", "IN", "192.0.2.1").Rdata+"\ta.example\n", out)
}

func Test_HelpFlag(t *testing.T) {
	root := newRootCmd()

	assert.NotPanics(t, root.InitDefaultHelpFlag)

	f := root.Flags().ShorthandLookup("h")
	require.NotNil(t, f)
	assert.Equal(t, "help", f.Name)
}
