package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"

	"github.com/immunekb/cytokb/internal/domain"
)

// classify maps driver failures onto the domain taxonomy: connectivity loss
// and deadline hits become ErrStoreUnavailable (503 at the edge), anything
// else surfaces as-is and is treated as internal.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	// Class 08 = connection exceptions, 57 = operator intervention
	// (shutdown, cancel). Both mean the store, not the query, failed.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if class := pqErr.Code.Class(); class == "08" || class == "57" {
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
	}

	return err
}
