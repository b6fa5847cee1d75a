package pastecmd

// FeatureGates exposes runtime toggles read from the editor configuration.
type FeatureGates struct {
	MarkdownDialogEnabled func() bool
}

func (g FeatureGates) markdownDialogEnabled() bool {
	if g.MarkdownDialogEnabled == nil {
		return true
	}
	return g.MarkdownDialogEnabled()
}
