// Package types holds the vocabulary shared between a vision client and
// the resolver that consumes it, kept in its own leaf package so client
// implementations don't have to import the resolver.
package types

// Box is a subject bounding box normalized to [0,1] on both axes.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Subject is the primary subject a vision model located in an image.
type Subject struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Box        Box     `json:"box"`
	Cx         float64 `json:"cx"`
	Cy         float64 `json:"cy"`
}

// DetectionResult is a vision client's full response to an AnalyzeImage
// call.
type DetectionResult struct {
	Subject     Subject  `json:"primary"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}
