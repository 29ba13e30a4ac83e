package roundimg

// Stage identifies a progress checkpoint within one export.
type Stage uint8

const (
	// StageSetup is reported once inputs are validated.
	StageSetup Stage = iota

	// StageMask is reported once the coverage mask is rasterized.
	StageMask

	// StageComposite is reported once the result is complete.
	StageComposite
)

// Percent returns the completion percentage shown for the stage.
func (s Stage) Percent() int {
	switch s {
	case StageSetup:
		return 20
	case StageMask:
		return 60
	case StageComposite:
		return 100
	default:
		return 0
	}
}

// String returns the user-facing status message for the stage.
func (s Stage) String() string {
	switch s {
	case StageSetup:
		return "Preparing image..."
	case StageMask:
		return "Applying rounded corners..."
	case StageComposite:
		return "Complete!"
	default:
		return "Unknown"
	}
}

// ProgressFunc observes export checkpoints. It runs synchronously on the
// exporting goroutine and should return quickly.
type ProgressFunc func(Stage)
