// Package fonts decides which font files and glyph ranges make up the UI
// font.
//
// The decision depends on the output resolution (the configured base size
// is defined at 1920x1080 and scaled down or up from there), on an optional
// custom font file, and on the language whose glyphs are merged in, taken
// from configuration or from the system locale.
//
// NewPlan only resolves; Plan.Apply loads the result into an atlas:
//
//	plan := fonts.NewPlan(cfg.Font, 2560, 1440, cfg.Paths.Fonts, fonts.SystemLocale())
//	for _, w := range plan.Warnings {
//		logger.Warn(w)
//	}
//	if err := plan.Apply(io.Fonts); err != nil {
//		return err
//	}
package fonts
