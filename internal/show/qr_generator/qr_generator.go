package qr

import (
	"fmt"
	"time"

	"github.com/skip2/go-qrcode"

	"fyyur/internal/models"
)

type QRGenerator struct {
	baseURL string
	size    int
}

func NewQRGenerator(baseURL string) *QRGenerator {
	return &QRGenerator{baseURL: baseURL, size: 256}
}

// Content is the text encoded for a show: the venue page URL followed by
// the start time.
func (q *QRGenerator) Content(show *models.Show) string {
	return fmt.Sprintf("%s/venues/%d#show-%d %s", q.baseURL, show.VenueID, show.ID, show.StartTime.UTC().Format(time.RFC3339))
}

// GeneratePNG renders the show's QR code as a PNG image.
func (q *QRGenerator) GeneratePNG(show *models.Show) ([]byte, error) {
	png, err := qrcode.Encode(q.Content(show), qrcode.Medium, q.size)
	if err != nil {
		return nil, fmt.Errorf("encode qr for show %d: %w", show.ID, err)
	}
	return png, nil
}
