package verification

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-verify-reset/internal/domain"
)

// CheckUnique reports whether the candidate values are free for the taking.
// Each field is probed independently and concurrently; a field is taken when
// some other user already holds the value. ownID, when set, excludes the
// caller's own record so profile edits don't collide with themselves.
//
// A nil return means every value is available. Taken fields aggregate into a
// single DuplicateFieldsError; noErrMsg suppresses its message for callers
// that map fields to form errors themselves.
func (s *service) CheckUnique(ctx context.Context, candidates map[string]string, ownID string, noErrMsg bool) error {
	if len(candidates) == 0 {
		return nil
	}
	for k := range candidates {
		if _, ok := propAttrs[k]; !ok {
			return fmt.Errorf("property %q is not checkable: %w", k, domain.ErrInvalidInput)
		}
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		taken    []string
		firstErr error
	)
	for field, value := range candidates {
		wg.Add(1)
		go func(field, value string) {
			defer wg.Done()
			users, err := s.users.Find(ctx, map[string]string{propAttrs[field]: strings.TrimSpace(value)})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			if isTaken(users, ownID) {
				taken = append(taken, field)
			}
		}(field, value)
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	if len(taken) > 0 {
		return domain.NewDuplicateFieldsError(taken, noErrMsg)
	}
	return nil
}

// isTaken decides ownership of a value from its matches. Two or more matches
// is always a conflict; a single match is fine only when it is the caller's
// own record.
func isTaken(users []domain.User, ownID string) bool {
	if len(users) > 1 {
		return true
	}
	if len(users) == 1 {
		return ownID == "" || users[0].UserID != ownID
	}
	return false
}
