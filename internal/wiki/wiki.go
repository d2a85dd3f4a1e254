package wiki

import "time"

// DailyImage is the picture of the day for one run. It is created by the
// fetcher, consumed by the tagger and publisher, and discarded afterwards.
type DailyImage struct {
	// Date is the run date in the publication timezone.
	Date time.Time
	// Bytes is the raw image binary.
	Bytes []byte
	// Caption is the plain-text caption shown next to the image.
	Caption string
	// SourceURL is the resolved URL the image was downloaded from.
	SourceURL string
	// MIMEType is guessed from the image URL path and may be empty.
	MIMEType string
}
