package history

import (
	"encoding/json"
	"os"
)

// TextSource identifies which decode rule produced a snapshot's text.
type TextSource int

const (
	// SourceString: the record was a bare JSON string.
	SourceString TextSource = iota
	// SourceContentField: the record was an object with a non-empty "content".
	SourceContentField
	// SourceTextField: the record was an object with a non-empty "text".
	SourceTextField
	// SourceRaw: structured decoding did not apply; raw bytes used verbatim.
	SourceRaw
)

// String returns the source name for diagnostics.
func (s TextSource) String() string {
	switch s {
	case SourceString:
		return "string"
	case SourceContentField:
		return "content"
	case SourceTextField:
		return "text"
	default:
		return "raw"
	}
}

// SnapshotText is the decoded content of a snapshot record.
type SnapshotText struct {
	Source TextSource
	Text   string
}

// DecodeSnapshotText decodes a snapshot record into plain text. Records are
// loosely typed; the fallback order is fixed:
//
//  1. bare JSON string → that string
//  2. object with non-empty string "content" → that value
//  3. object with non-empty string "text" → that value
//  4. anything else (no recognized field, non-string values, parse failure)
//     → the raw bytes verbatim
//
// Decoding never fails; callers always receive some text.
func DecodeSnapshotText(raw []byte) SnapshotText {
	var v any
	if err := json.Unmarshal(raw, &v); err == nil {
		switch rec := v.(type) {
		case string:
			return SnapshotText{Source: SourceString, Text: rec}
		case map[string]any:
			if content, ok := rec["content"].(string); ok && content != "" {
				return SnapshotText{Source: SourceContentField, Text: content}
			}
			if text, ok := rec["text"].(string); ok && text != "" {
				return SnapshotText{Source: SourceTextField, Text: text}
			}
		}
	}
	return SnapshotText{Source: SourceRaw, Text: string(raw)}
}

// ExtractText reads the candidate's file and decodes it. The only possible
// error is the read itself (e.g. the snapshot vanished between listing and
// reading); decode problems degrade to raw text and are never surfaced.
func ExtractText(c Candidate) (SnapshotText, error) {
	raw, err := os.ReadFile(c.Path)
	if err != nil {
		return SnapshotText{}, err
	}
	return DecodeSnapshotText(raw), nil
}
