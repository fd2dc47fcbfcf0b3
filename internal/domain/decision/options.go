package decision

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithPanelSize sets how many submitted scorecards are needed before a
// candidate leaves WAITING.
func WithPanelSize(n int) Option {
	return func(c *Classifier) {
		c.panelSize = n
	}
}

// WithBands sets the three-band boundaries: averages at or below rejectMax
// are rejected, averages at or above reviewMin go to the hiring manager.
func WithBands(rejectMax, reviewMin float64) Option {
	return func(c *Classifier) {
		c.rejectMax = rejectMax
		c.reviewMin = reviewMin
	}
}

// WithTwoBand switches to the single-cutoff profile: below cutoff is rejected,
// everything else goes to the hiring manager.
func WithTwoBand(cutoff float64) Option {
	return func(c *Classifier) {
		c.profile = ProfileTwoBand
		c.cutoff = cutoff
	}
}

// WithProfile selects a profile by name.
func WithProfile(p Profile) Option {
	return func(c *Classifier) {
		c.profile = p
	}
}

// WithCutoff sets the two-band cutoff without switching profile.
func WithCutoff(cutoff float64) Option {
	return func(c *Classifier) {
		c.cutoff = cutoff
	}
}
