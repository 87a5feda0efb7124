package printer

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/semihalev/ucache/cache"
	"github.com/semihalev/ucache/config"
	"github.com/semihalev/ucache/record"
	"github.com/semihalev/ucache/unbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var records = []record.Record{
	record.New("www.example.com.", "A", "IN", "192.0.2.1"),
	record.New("www.example.com.", "AAAA", "IN", "2001:db8::1"),
	record.New("alias.example.com.", "CNAME", "IN", "www.example.com."),
}

func render(t *testing.T, name string, in []record.Record) string {
	t.Helper()

	p, err := Get(name)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, name, p.Name())

	var buf bytes.Buffer
	require.NoError(t, p.Print(&buf, slices.Values(in)))

	return buf.String()
}

func Test_Hosts(t *testing.T) {
	out := render(t, "hosts", records)
	assert.Equal(t, "192.0.2.1\twww.example.com\n2001:db8::1\twww.example.com\n", out)
}

func Test_UnboundLocal(t *testing.T) {
	out := render(t, "unbound_local", records[:1])
	assert.Equal(t, "unbound-control local_data \"www.example.com. IN A 192.0.2.1\"\n", out)
}

func Test_UnboundLocalRemove(t *testing.T) {
	out := render(t, "unbound_local_remove", records[2:])
	assert.Equal(t, "unbound-control local_data_remove \"alias.example.com.\"\n", out)
}

func Test_UnboundCache(t *testing.T) {
	out := render(t, "unbound_cache", records[:1])

	assert.Equal(t, strings.Join([]string{
		"START_RRSET_CACHE",
		"www.example.com.\t3600\tIN\tA\t192.0.2.1",
		"END_RRSET_CACHE",
		"START_MSG_CACHE",
		"END_MSG_CACHE",
		"EOF",
		"",
	}, "\n"), out)

	assert.Equal(t, "START_RRSET_CACHE\nEND_RRSET_CACHE\nSTART_MSG_CACHE\nEND_MSG_CACHE\nEOF\n", render(t, "unbound_cache", nil))
}

func Test_UnboundCacheReparse(t *testing.T) {
	in := cache.New()
	for _, r := range records {
		in.Add(r)
	}
	in.Add(record.New("t.example.", "TXT", "IN", `"two words"`))

	out := render(t, "unbound_cache", slices.Collect(in.Records()))

	parsed, err := unbound.Read(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, slices.Collect(in.Records()), slices.Collect(parsed.Records()))
}

func Test_Zone(t *testing.T) {
	in := append(slices.Clone(records), record.New("bad.example.", "A", "IN", "not-an-ip"))

	out := render(t, "zone", in)
	lines := strings.Split(strings.TrimSpace(out), "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "www.example.com.\t3600\tIN\tA\t192.0.2.1", lines[0])
	assert.Equal(t, "alias.example.com.\t3600\tIN\tCNAME\twww.example.com.", lines[2])
}

func Test_Get(t *testing.T) {
	p, err := Get("")
	assert.NoError(t, err)
	assert.Nil(t, p)

	_, err = Get("json")
	var cfgErr *config.Error
	assert.True(t, errors.As(err, &cfgErr))

	assert.Equal(t, []string{"hosts", "unbound_cache", "unbound_local", "unbound_local_remove", "zone"}, List())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func Test_PrintWriteError(t *testing.T) {
	p, err := Get("unbound_cache")
	require.NoError(t, err)

	assert.Error(t, p.Print(failingWriter{}, slices.Values(records)))
}
