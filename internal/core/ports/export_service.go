package ports

import (
	"context"

	"github.com/zonemark/annotation-system/internal/core/domain"
)

// ExportService serializes a video's annotations, joined with user
// identity, to CSV.
type ExportService interface {
	// ExportCSV returns the CSV bytes for the video. userID optionally
	// narrows the export to a single user's annotations; when empty the
	// actor's default scope applies (admins: every user, regular users:
	// their own rows). A non-admin requesting another user's id is denied.
	// Row order matches ListForVideo (timestamp ascending) and the header
	// row is fixed.
	ExportCSV(ctx context.Context, actor domain.Actor, videoID, userID string) ([]byte, error)
}
