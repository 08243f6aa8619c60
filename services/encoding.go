package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// ErrUnsupportedEncoding wird gemeldet, wenn keine der Kandidaten-Kodierungen
// ein verwertbares Dokument liefert.
var ErrUnsupportedEncoding = errors.New("no candidate encoding yields a usable document")

// encodingCandidate ist ein Eintrag der festen, geordneten Kandidatenliste.
type encodingCandidate struct {
	Name string
	enc  encoding.Encoding // nil = UTF-8-Durchreichung mit Validierung
}

// Die Reihenfolge ist Teil des Vertrags: bei mehreren passenden Kandidaten
// gewinnt immer der erste, nie der "inhaltlich bessere".
var encodingCandidates = []encodingCandidate{
	{Name: "gbk", enc: simplifiedchinese.GBK},
	{Name: "utf-8", enc: nil},
	// x/text hat keinen eigenständigen EUC-CN-Codec; GB18030 ist die Obermenge von GB2312.
	{Name: "gb2312", enc: simplifiedchinese.GB18030},
	{Name: "latin1", enc: charmap.ISO8859_1},
}

// decodeCandidate dekodiert data vollständig mit dem Kandidaten.
// x/text-Decoder ersetzen ungültige Sequenzen durch U+FFFD statt zu scheitern;
// ein eingeführtes Ersatzzeichen gilt hier als Dekodier-Fehlschlag.
func decodeCandidate(c encodingCandidate, data []byte) (string, bool) {
	if c.enc == nil {
		if !utf8.Valid(data) {
			return "", false
		}
		return string(data), true
	}
	out, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	text := string(out)
	if strings.ContainsRune(text, utf8.RuneError) {
		return "", false
	}
	return text, true
}

// resolveEncoding probiert die Kandidatenliste der Reihe nach durch. usable
// entscheidet, ob der dekodierte Text ein verwertbares Dokument ergibt; der
// erste Kandidat, für den das gilt, wird verbindlich gewählt.
func resolveEncoding(data []byte, usable func(name, text string) bool) (string, error) {
	for _, c := range encodingCandidates {
		text, ok := decodeCandidate(c, data)
		if !ok {
			continue
		}
		if usable(c.Name, text) {
			return c.Name, nil
		}
	}
	return "", ErrUnsupportedEncoding
}
