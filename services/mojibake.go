package services

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// RepairPair ist eine Umkodier-Hypothese: der Text wurde vermutlich mit From
// dekodiert, obwohl die Bytes in To kodiert waren.
type RepairPair struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// RepairTable ist die unveränderliche Konfiguration der Mojibake-Reparatur:
// geordnete Umkodier-Paare plus eine kleine Whitelist erwarteter
// Produktvokabeln, an der ein Reparatur-Kandidat erkannt wird.
type RepairTable struct {
	Pairs      []RepairPair `yaml:"pairs"`
	Vocabulary []string     `yaml:"vocabulary"`
}

// DefaultRepairTable liefert die im Quellbestand beobachteten Kombinationen
// und Vokabeln.
func DefaultRepairTable() RepairTable {
	return RepairTable{
		Pairs: []RepairPair{
			{From: "latin1", To: "utf-8"},
			{From: "latin1", To: "gbk"},
			{From: "latin1", To: "gb2312"},
			{From: "cp1252", To: "utf-8"},
			{From: "cp1252", To: "gbk"},
		},
		Vocabulary: []string{
			"救生", "商品", "包装", "装备", "产品", "用品", "手动", "自动",
			"红色", "橙色", "黄色", "充气", "腰带", "逗猫", "钢丝",
		},
	}
}

// repairEncodings bildet die Konfigurationsnamen auf x/text-Codecs ab.
// nil steht für UTF-8-Durchreichung.
var repairEncodings = map[string]encoding.Encoding{
	"utf-8":      nil,
	"latin1":     charmap.ISO8859_1,
	"iso-8859-1": charmap.ISO8859_1,
	"cp1252":     charmap.Windows1252,
	"gbk":        simplifiedchinese.GBK,
	"gb2312":     simplifiedchinese.GB18030,
}

func containsCJK(s string) bool {
	for _, r := range s {
		if r >= 0x4E00 && r <= 0x9FFF {
			return true
		}
	}
	return false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}

func stripNonASCII(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] <= 0x7F {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// encodeAs kodiert s zurück in Bytes, als wäre es mit name kodiert gewesen.
// Nicht abbildbare Runen lassen den Kandidaten scheitern.
func encodeAs(name, s string) ([]byte, bool) {
	enc, known := repairEncodings[name]
	if !known {
		return nil, false
	}
	if enc == nil {
		return []byte(s), true
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, false
	}
	return out, true
}

// decodeAs dekodiert Bytes strikt mit name; eingeführte Ersatzzeichen gelten
// als Fehlschlag.
func decodeAs(name string, data []byte) (string, bool) {
	enc, known := repairEncodings[name]
	if !known {
		return "", false
	}
	if enc == nil {
		if !utf8.Valid(data) {
			return "", false
		}
		return string(data), true
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	text := string(out)
	if strings.ContainsRune(text, utf8.RuneError) {
		return "", false
	}
	return text, true
}

func (t RepairTable) matchesVocabulary(s string) bool {
	for _, term := range t.Vocabulary {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// Repair repariert einen vermutlich falsch dekodierten Textwert bestmöglich.
// Die Funktion wirft nie, liefert nur bei leerer Eingabe einen leeren String
// und ist idempotent: bereits korrekter (CJK-haltiger) oder rein
// ASCII-haltiger Text bleibt unverändert.
func (t RepairTable) Repair(s string) string {
	if s == "" {
		return s
	}
	if containsCJK(s) && !strings.ContainsRune(s, utf8.RuneError) {
		return s
	}
	if isASCII(s) {
		return s
	}

	for _, pair := range t.Pairs {
		raw, ok := encodeAs(pair.From, s)
		if !ok {
			continue
		}
		fixed, ok := decodeAs(pair.To, raw)
		if !ok {
			continue
		}
		if containsCJK(fixed) || t.matchesVocabulary(fixed) {
			return fixed
		}
	}

	// Letzter Ausweg: Müll nicht weiterreichen, sondern auf ASCII reduzieren.
	if ascii := stripNonASCII(s); strings.TrimSpace(ascii) != "" {
		return ascii
	}
	return s
}
