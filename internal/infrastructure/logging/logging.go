package logging

import (
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
)

// Setup はapex/logのハンドラとレベルを設定する。format は "text" か "json"
func Setup(level, format string) {
	SetupWriter(os.Stderr, level, format)
}

// SetupWriter は出力先を指定してSetupする
func SetupWriter(w io.Writer, level, format string) {
	switch strings.ToLower(format) {
	case "json":
		log.SetHandler(json.New(w))
	default:
		log.SetHandler(text.New(w))
	}

	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
