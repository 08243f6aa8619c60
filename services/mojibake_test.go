package services

import (
	"strings"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// latin1Misdecode simuliert das falsche Dekodieren von Bytes als Latin-1:
// jedes Byte wird zu genau einem Codepoint.
func latin1Misdecode(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

func TestRepairLatin1MisdecodedUTF8(t *testing.T) {
	table := DefaultRepairTable()

	original := "救生圈 红色"
	garbled := latin1Misdecode([]byte(original))
	if garbled == original {
		t.Fatal("test setup: misdecode did not garble the text")
	}

	fixed := table.Repair(garbled)
	if fixed != original {
		t.Fatalf("expected %q, got %q", original, fixed)
	}
}

func TestRepairLatin1MisdecodedGBK(t *testing.T) {
	table := DefaultRepairTable()

	original := "充气腰带"
	gbkBytes, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(original))
	if err != nil {
		t.Fatalf("gbk encode error: %v", err)
	}
	garbled := latin1Misdecode(gbkBytes)

	fixed := table.Repair(garbled)
	if fixed != original {
		t.Fatalf("expected %q, got %q", original, fixed)
	}
}

func TestRepairLeavesCorrectTextAlone(t *testing.T) {
	table := DefaultRepairTable()

	for _, s := range []string{
		"",
		"plain ascii product name",
		"救生圈手动充气款",
		"mixed 商品 name",
	} {
		if got := table.Repair(s); got != s {
			t.Fatalf("Repair(%q) changed text to %q", s, got)
		}
	}
}

func TestRepairStripsUnfixableGarbage(t *testing.T) {
	table := DefaultRepairTable()

	// Latin-1-Müll, der in keiner Zielkodierung CJK oder Vokabeln ergibt.
	in := "nameÿþ ok"
	got := table.Repair(in)
	if got != "name ok" {
		t.Fatalf("expected stripped ascii %q, got %q", "name ok", got)
	}
}

func TestRepairNeverEmptyOnNonEmptyInput(t *testing.T) {
	table := DefaultRepairTable()

	in := strings.Repeat("þÿ", 4)
	got := table.Repair(in)
	if got == "" {
		t.Fatal("Repair returned empty string for non-empty input")
	}
}

func TestRepairIdempotent(t *testing.T) {
	table := DefaultRepairTable()

	inputs := []string{
		"",
		"ascii only",
		"救生圈 红色",
		latin1Misdecode([]byte("充气腰带")),
		"nameÿþ ok",
		strings.Repeat("þÿ", 4),
		"mixed ä text 商品",
	}
	gbkBytes, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte("逗猫钢丝"))
	if err != nil {
		t.Fatalf("gbk encode error: %v", err)
	}
	inputs = append(inputs, latin1Misdecode(gbkBytes))

	for _, s := range inputs {
		once := table.Repair(s)
		twice := table.Repair(once)
		if once != twice {
			t.Fatalf("Repair not idempotent for %q: first %q, second %q", s, once, twice)
		}
	}
}
