// Package services – item codes
//
// Every blood request item carries a globally unique code of the form
// XXX-######-DDMMYY: a three-letter prefix derived from the hospital name, six
// random digits, and the creation date. Codes are assigned optimistically.
// A candidate is checked for existence and inserted under a savepoint; if the
// unique index rejects it anyway (a concurrent insert won the race), the
// savepoint is rolled back and a fresh candidate is tried.
package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/tbourn/bloodbank-backend/internal/repo"
)

const (
	codePrefixLen   = 3
	codeDateLayout  = "020106"
	codeSavepoint   = "item_code"
	defaultAttempts = 10
)

// HospitalPrefix derives the three-letter code prefix from a hospital name.
// Diacritics are folded ("Évora" -> "EVO"), non-letters are skipped, and
// short results are padded with X.
func HospitalPrefix(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	for _, r := range strings.ToUpper(folded) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
			if b.Len() == codePrefixLen {
				break
			}
		}
	}
	for b.Len() < codePrefixLen {
		b.WriteByte('X')
	}
	return b.String()
}

// CodeGenerator produces and assigns unique item codes.
type CodeGenerator struct {
	// MaxAttempts bounds the number of candidates tried per item.
	MaxAttempts int
	// Now returns the creation time used for the date segment.
	Now func() time.Time
	// IntN returns a random integer in [0, n).
	IntN func(n int) int
}

// NewCodeGenerator returns a generator using the wall clock and math/rand.
func NewCodeGenerator(maxAttempts int) *CodeGenerator {
	if maxAttempts <= 0 {
		maxAttempts = defaultAttempts
	}
	return &CodeGenerator{MaxAttempts: maxAttempts, Now: time.Now, IntN: rand.Intn}
}

// Candidate returns a fresh code for prefix without checking uniqueness.
func (g *CodeGenerator) Candidate(prefix string) string {
	n := 100000 + g.IntN(900000)
	return fmt.Sprintf("%s-%06d-%s", prefix, n, g.Now().Format(codeDateLayout))
}

// Assign finds a free code for prefix and calls insert with it inside tx.
// insert must perform the write that claims the code. A unique violation
// from insert is treated as a collision and retried.
func (g *CodeGenerator) Assign(ctx context.Context, tx *gorm.DB, prefix string, insert func(code string) error) (string, error) {
	for attempt := 1; attempt <= g.MaxAttempts; attempt++ {
		code := g.Candidate(prefix)

		taken, err := repo.ItemCodeExists(ctx, tx, code)
		if err != nil {
			return "", err
		}
		if taken {
			codeCollisions.Inc()
			continue
		}

		if err := tx.SavePoint(codeSavepoint).Error; err != nil {
			return "", err
		}
		err = insert(code)
		if err == nil {
			return code, nil
		}
		if !repo.IsDuplicate(err) {
			return "", err
		}
		if rbErr := tx.RollbackTo(codeSavepoint).Error; rbErr != nil {
			return "", rbErr
		}
		codeCollisions.Inc()
		log.Warn().Str("code", code).Int("attempt", attempt).Msg("item code collision on insert")
	}
	return "", ErrCodeExhausted
}
