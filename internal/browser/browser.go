// Package browser hides the headless rendering backend behind the three
// calls the lookup needs.
package browser

import (
	"context"
	"time"
)

// Page is a single-use rendering context. Close must release every resource
// the Page holds and is safe to call more than once.
type Page interface {
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error
	Content(ctx context.Context) (string, error)
	Close() error
}

type Launcher interface {
	Launch(ctx context.Context) (Page, error)
}
