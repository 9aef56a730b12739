// Package metadata signs exported report documents so a later reader can
// tell whether the content was edited after export.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// TagStart is the start of the metadata block.
	TagStart = "<!-- REPORT_METADATA"
	// TagEnd is the end of the metadata block.
	TagEnd = "REPORT_METADATA_END -->"
)

// Metadata verification errors.
var (
	ErrNoMetadataBlock = errors.New("no metadata block found")
	ErrNoHashFound     = errors.New("no hash found in metadata")
	ErrHashMismatch    = errors.New("hash mismatch")
)

// Metadata describes an exported report.
type Metadata struct {
	Generated time.Time
	Session   string
	Rounds    int
	Hash      string
}

var metadataRegex = regexp.MustCompile(`(?s)<!--\s*REPORT_METADATA\s*\n(.*?)\n\s*REPORT_METADATA_END\s*-->`)

// Extract removes the metadata block from content and returns both the
// metadata and the cleaned content. The cleaned content is what is hashed.
func Extract(content string) (*Metadata, string) {
	match := metadataRegex.FindStringSubmatch(content)
	cleanContent := strings.TrimRight(metadataRegex.ReplaceAllString(content, ""), "\n")

	if len(match) < 2 {
		return nil, cleanContent
	}

	meta := &Metadata{}

	for line := range strings.SplitSeq(match[1], "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}

		val = strings.TrimSpace(val)

		switch strings.TrimSpace(key) {
		case "GENERATED":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				meta.Generated = t
			}
		case "SESSION":
			meta.Session = val
		case "ROUNDS":
			meta.Rounds, _ = strconv.Atoi(val)
		case "HASH":
			meta.Hash = val
		}
	}

	return meta, cleanContent
}

// CalculateHash computes the SHA-256 hash of the content without its
// metadata block.
func CalculateHash(content string) string {
	_, clean := Extract(content)
	hash := sha256.Sum256([]byte(clean))

	return hex.EncodeToString(hash[:])
}

// Sign replaces any existing metadata block with one describing meta and
// carrying a fresh hash. A zero Generated time is set to now.
func Sign(content string, meta Metadata) string {
	_, clean := Extract(content)

	generated := meta.Generated
	if generated.IsZero() {
		generated = time.Now()
	}

	block := fmt.Sprintf("\n\n%s\nGENERATED: %s\nSESSION: %s\nROUNDS: %d\nHASH: %s\n%s",
		TagStart, generated.UTC().Format(time.RFC3339), meta.Session, meta.Rounds, CalculateHash(clean), TagEnd)

	return clean + block
}

// Verify checks if the content matches the hash in its metadata.
func Verify(content string) (bool, error) {
	meta, clean := Extract(content)
	if meta == nil {
		return false, ErrNoMetadataBlock
	}

	if meta.Hash == "" {
		return false, ErrNoHashFound
	}

	calculated := CalculateHash(clean)
	if calculated != meta.Hash {
		return false, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, meta.Hash, calculated)
	}

	return true, nil
}
