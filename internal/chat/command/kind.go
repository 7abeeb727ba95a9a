package command

import "github.com/wtask/filechat/internal/chat/message"

// Kind - closed set of commands known by server.
type Kind int

const (
	_ Kind = iota
	// KindHelp - list available commands.
	KindHelp
	// KindListFiles - list files stored on server.
	KindListFiles
	// KindDeleteFile - delete file on server.
	KindDeleteFile
	// KindDownload - request file descriptor to start download.
	KindDownload
	// KindUpload - declare file to push, raw form of KindFileInfo.
	KindUpload
	// KindPrivate - message to single client.
	KindPrivate
	// KindBroadcast - message to all clients.
	KindBroadcast
	// KindConfirm - client is ready to receive requested file.
	KindConfirm
	// KindFileInfo - client declares file it is going to push.
	KindFileInfo
	// KindExit - client leaves, handled by connection owner.
	KindExit

	kindCount
)

// Keywords as typed by users or sent by client during handshakes.
const (
	KeywordHelp       = "/?"
	KeywordListFiles  = "/files"
	KeywordDeleteFile = "/delf"
	KeywordDownload   = "/downl"
	KeywordUpload     = "/upl"
	KeywordPrivate    = "/msg"
	KeywordBroadcast  = "/bmsg"
	KeywordExit       = "/exit"
	KeywordConfirm    = message.TagConfirmAck
	KeywordFileInfo   = message.TagFileInfo
)

var keywords = map[string]Kind{
	KeywordHelp:       KindHelp,
	KeywordListFiles:  KindListFiles,
	KeywordDeleteFile: KindDeleteFile,
	KeywordDownload:   KindDownload,
	KeywordUpload:     KindUpload,
	KeywordPrivate:    KindPrivate,
	KeywordBroadcast:  KindBroadcast,
	KeywordConfirm:    KindConfirm,
	KeywordFileInfo:   KindFileInfo,
	KeywordExit:       KindExit,
}

// Lookup - resolves command keyword.
func Lookup(keyword string) (Kind, bool) {
	k, ok := keywords[keyword]
	return k, ok
}

func (k Kind) String() string {
	for keyword, kind := range keywords {
		if kind == k {
			return keyword
		}
	}
	return "unknown command"
}
