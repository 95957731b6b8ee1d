// ABOUTME: Media selection policy for profile logo and gallery fields
// ABOUTME: Picks one logo and orders remaining media into image descriptors
package mapper

import "github.com/outpostdigital/roma/models"

// ImageRef is the descriptor shape the destination image fields accept.
type ImageRef struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// selectMedia applies the media policy: the first logo-category item (input
// order is priority then creation time) becomes the profile logo; every
// other item lands in the gallery in input order.
func selectMedia(media []models.MediaItem) (*ImageRef, []ImageRef) {
	var logo *ImageRef
	var gallery []ImageRef

	for _, m := range media {
		ref := ImageRef{URL: m.URL, Alt: m.AltText}
		if logo == nil && m.Category == models.MediaCategoryLogo {
			logo = &ref
			continue
		}
		gallery = append(gallery, ref)
	}

	return logo, gallery
}
