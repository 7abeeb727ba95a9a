package command

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wtask/filechat/internal/chat/message"
	"github.com/wtask/filechat/internal/chat/storage"
)

type memFiles struct {
	sizes   map[string]int64
	listErr error
}

func (m *memFiles) Stat(name string) (storage.FileInfo, error) {
	size, ok := m.sizes[name]
	if !ok {
		return storage.FileInfo{}, fmt.Errorf("%w: %s", storage.ErrNotFound, name)
	}
	return storage.FileInfo{Name: name, Size: size}, nil
}

func (m *memFiles) List() ([]storage.FileInfo, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	list := []storage.FileInfo{}
	for name, size := range m.sizes {
		list = append(list, storage.FileInfo{Name: name, Size: size})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (m *memFiles) Delete(name string) error {
	if _, ok := m.sizes[name]; !ok {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, name)
	}
	delete(m.sizes, name)
	return nil
}

func request(keyword string, port int, raw string) Request {
	kind, _ := Lookup(keyword)
	e := message.Decode([]byte(raw))
	return Request{Kind: kind, Port: port, Args: e.Payload, HasArgs: e.HasPayload}
}

func TestLookup(test *testing.T) {
	for keyword, expected := range map[string]Kind{
		"/?":         KindHelp,
		"/files":     KindListFiles,
		"/delf":      KindDeleteFile,
		"/downl":     KindDownload,
		"/upl":       KindUpload,
		"/msg":       KindPrivate,
		"/bmsg":      KindBroadcast,
		"/exit":      KindExit,
		"<conf>":     KindConfirm,
		"<file_inf>": KindFileInfo,
	} {
		kind, ok := Lookup(keyword)
		assert.True(test, ok, keyword)
		assert.Equal(test, expected, kind, keyword)
		assert.Equal(test, keyword, kind.String())
	}
	for _, keyword := range []string{"/bogus", "", "msg", "/MSG", "<close>"} {
		_, ok := Lookup(keyword)
		assert.False(test, ok, keyword)
	}
}

func TestExecute_notFound(test *testing.T) {
	for _, kind := range []Kind{0, KindExit, kindCount, -1} {
		ins := Execute(&memFiles{}, Request{Kind: kind})
		assert.Equal(test, RouteSelf, ins.Route)
		assert.Equal(test, "<single>:SERVER: Command not found", ins.Data.String())
	}
}

func TestExecute_help(test *testing.T) {
	ins := Execute(&memFiles{}, request("/?", 1, "/?"))
	assert.Equal(test, RouteSelf, ins.Route)
	assert.Equal(test, message.TagMulti, ins.Data.Tag)
	lines := message.SplitLines(ins.Data.Payload)
	assert.Equal(test, CommandList(), lines)
	assert.Contains(test, lines, "/exit...: Log out")
}

func TestExecute_private(test *testing.T) {
	cases := []struct {
		raw    string
		route  Route
		target string
		data   string
	}{
		{"/msg:5001:hello there", RoutePrivate, "5001", "<single>:(5000)> hello there"},
		{"/msg:5001:a:b", RoutePrivate, "5001", "<single>:(5000)> a:b"},
		{"/msg:abc:hi", RoutePrivate, "abc", "<single>:(5000)> hi"},
		{"/msg: 5001 :multi\nline", RoutePrivate, "5001", "<single>:(5000)> multi line"},
		{"/msg", RouteSelf, "", "<single>:SERVER: Client ID or message is empty"},
		{"/msg:5001", RouteSelf, "", "<single>:SERVER: Client ID or message is empty"},
		{"/msg::hi", RouteSelf, "", "<single>:SERVER: Client ID or message is empty"},
		{"/msg:5001:", RouteSelf, "", "<single>:SERVER: Empty messages can not be sent"},
		{"/msg:5001:   ", RouteSelf, "", "<single>:SERVER: Empty messages can not be sent"},
	}
	for _, c := range cases {
		ins := Execute(&memFiles{}, request("/msg", 5000, c.raw))
		assert.Equal(test, c.route, ins.Route, c.raw)
		assert.Equal(test, c.target, ins.Target, c.raw)
		assert.Equal(test, c.data, ins.Data.String(), c.raw)
	}
}

func TestExecute_broadcast(test *testing.T) {
	ins := Execute(&memFiles{}, request("/bmsg", 5000, "/bmsg:hi all"))
	assert.Equal(test, RouteBroadcast, ins.Route)
	assert.Equal(test, "<single>:(5000)BROAD> hi all", ins.Data.String())

	ins = Execute(&memFiles{}, request("/bmsg", 5000, "/bmsg"))
	assert.Equal(test, RouteSelf, ins.Route)
	assert.Equal(test, "<single>:SERVER: Empty messages can not be sent", ins.Data.String())
}

func TestExecute_listFiles(test *testing.T) {
	files := &memFiles{sizes: map[string]int64{"b.txt": 20, "a.txt": 10}}
	ins := Execute(files, request("/files", 1, "/files"))
	assert.Equal(test, RouteSelf, ins.Route)
	assert.Equal(test, "<mult>:10 - a.txt<<SEP>>20 - b.txt", ins.Data.String())

	ins = Execute(&memFiles{}, request("/files", 1, "/files"))
	assert.Equal(test, "<single>:SERVER: There are no files on the server", ins.Data.String())

	failure := errors.New("io failure")
	ins = Execute(&memFiles{listErr: failure}, request("/files", 1, "/files"))
	assert.Equal(test, RouteSelf, ins.Route)
	assert.ErrorIs(test, ins.Err, failure)
}

func TestExecute_deleteFile(test *testing.T) {
	files := &memFiles{sizes: map[string]int64{"a.txt": 10}}
	ins := Execute(files, request("/delf", 1, "/delf:a.txt"))
	assert.Equal(test, RouteSelf, ins.Route)
	assert.Equal(test, "<single>:SERVER: File a.txt deleted", ins.Data.String())
	assert.Empty(test, files.sizes)

	ins = Execute(files, request("/delf", 1, "/delf:a.txt"))
	assert.Equal(test, RouteSelf, ins.Route)
	assert.Equal(test, "<single>:SERVER: file not found", ins.Data.String())
	assert.ErrorIs(test, ins.Err, storage.ErrNotFound)
}

func TestExecute_download(test *testing.T) {
	files := &memFiles{sizes: map[string]int64{"a.txt": 10, "empty": 0}}
	ins := Execute(files, request("/downl", 1, "/downl:a.txt"))
	assert.Equal(test, RouteSelf, ins.Route)
	assert.Equal(test, "<confirm>:a.txt||10", ins.Data.String())
	assert.Equal(test, message.FileDescriptor{Name: "a.txt", Size: 10}, ins.File)

	ins = Execute(files, request("/downl", 1, "/downl:empty"))
	assert.Equal(test, "<confirm>:empty||0", ins.Data.String())

	ins = Execute(files, request("/downl", 1, "/downl:missing"))
	assert.Equal(test, RouteSelf, ins.Route)
	assert.Equal(test, "<single>:SERVER: file not found", ins.Data.String())
}

func TestExecute_fileRoutes(test *testing.T) {
	cases := []struct {
		keyword, raw string
		route        Route
	}{
		{"<conf>", "<conf>:a.txt||10", RouteFileSend},
		{"<file_inf>", "<file_inf>:a.txt||10", RouteFileReceive},
		{"/upl", "/upl:a.txt||10", RouteFileReceive},
	}
	for _, c := range cases {
		ins := Execute(&memFiles{}, request(c.keyword, 1, c.raw))
		assert.Equal(test, c.route, ins.Route, c.raw)
		assert.Equal(test, message.FileDescriptor{Name: "a.txt", Size: 10}, ins.File, c.raw)
	}

	for _, raw := range []string{"<conf>:a.txt||ten", "<file_inf>:a.txt", "/upl"} {
		e := message.Decode([]byte(raw))
		ins := Execute(&memFiles{}, request(e.Tag, 1, raw))
		assert.Equal(test, RouteSelf, ins.Route, raw)
		assert.Equal(test, "<single>:SERVER: There is something wrong in your request", ins.Data.String())
		var formatErr *message.FormatError
		assert.True(test, errors.As(ins.Err, &formatErr), raw)
	}
}

func TestRoute_String(test *testing.T) {
	assert.Equal(test, "file-receive", RouteFileReceive.String())
	assert.Equal(test, "unknown route", Route(100).String())
}
