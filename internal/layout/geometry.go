package layout

// Rect is a drawing rectangle with its origin at the top-left of the page.
type Rect struct {
	X, Y, W, H float64
}

// FitImage scales an image of imgW x imgH pixels to fill the area inside
// the margins while preserving aspect ratio, then centers it on the page.
// Images wider (relative to height) than the drawable area are fitted to
// its width; all others to its height.
func FitImage(pageW, pageH, margin float64, imgW, imgH int) Rect {
	availW := pageW - 2*margin
	availH := pageH - 2*margin
	if imgW <= 0 || imgH <= 0 || availW <= 0 || availH <= 0 {
		return Rect{X: margin, Y: margin, W: availW, H: availH}
	}

	imgAspect := float64(imgW) / float64(imgH)
	availAspect := availW / availH

	var w, h float64
	if imgAspect > availAspect {
		w = availW
		h = availW / imgAspect
	} else {
		h = availH
		w = availH * imgAspect
	}
	return Rect{
		X: (pageW - w) / 2,
		Y: (pageH - h) / 2,
		W: w,
		H: h,
	}
}
