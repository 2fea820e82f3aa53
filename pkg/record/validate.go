package record

// Image size bounds enforced by ValidateImage.
const (
	// MinImageBytes is the minimum accepted image size (1 KiB).
	MinImageBytes = 1024

	// MaxImageBytes is the maximum accepted image size (50 MiB).
	MaxImageBytes = 50 * 1024 * 1024
)

// ValidateImage checks the raw content size bounds and, on success, returns
// presentation metrics for the image. The timing figures and quality score
// are fixed reference values; they are not used for control decisions
// downstream. ValidateImage has no side effects.
func ValidateImage(imageData []byte) (*ImageAnalysisMetrics, error) {
	if len(imageData) < MinImageBytes {
		return nil, NewValidationError("image file too small - minimum 1KB required")
	}

	if len(imageData) > MaxImageBytes {
		return nil, NewValidationError("image file too large - maximum 50MB allowed")
	}

	return &ImageAnalysisMetrics{
		ImageSizeKB:          uint32(len(imageData) / 1024),
		ProcessingTimeMS:     1250,
		ModelInferenceTimeMS: 850,
		PreprocessingTimeMS:  400,
		QualityScore:         0.87,
	}, nil
}
