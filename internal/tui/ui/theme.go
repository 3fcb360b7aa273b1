package ui

import "github.com/gdamore/tcell/v2"

// Theme holds the color palette for the TUI.
type Theme struct {
	BgColor          tcell.Color
	FgColor          tcell.Color
	BorderColor      tcell.Color
	TitleColor       tcell.Color
	AccentColor      tcell.Color
	MutedColor       tcell.Color
	UserBubbleColor  tcell.Color
	AIBubbleColor    tcell.Color
	TableCursorFg    tcell.Color
	TableCursorBg    tcell.Color
	FlashInfoColor   tcell.Color
	FlashOKColor     tcell.Color
	FlashErrColor    tcell.Color
	FieldErrorColor  tcell.Color
	InputBorderColor tcell.Color
}

// Dark returns the dark palette.
func Dark() *Theme {
	return &Theme{
		BgColor:          tcell.ColorBlack,
		FgColor:          tcell.ColorWhite,
		BorderColor:      tcell.ColorDarkSlateGray,
		TitleColor:       tcell.ColorMediumPurple,
		AccentColor:      tcell.ColorMediumPurple,
		MutedColor:       tcell.ColorGray,
		UserBubbleColor:  tcell.ColorDodgerBlue,
		AIBubbleColor:    tcell.ColorLightGray,
		TableCursorFg:    tcell.ColorBlack,
		TableCursorBg:    tcell.ColorMediumPurple,
		FlashInfoColor:   tcell.ColorNavajoWhite,
		FlashOKColor:     tcell.ColorGreen,
		FlashErrColor:    tcell.ColorOrangeRed,
		FieldErrorColor:  tcell.ColorRed,
		InputBorderColor: tcell.ColorMediumPurple,
	}
}

// Light returns the light palette.
func Light() *Theme {
	return &Theme{
		BgColor:          tcell.ColorWhite,
		FgColor:          tcell.ColorBlack,
		BorderColor:      tcell.ColorLightSlateGray,
		TitleColor:       tcell.ColorRebeccaPurple,
		AccentColor:      tcell.ColorRebeccaPurple,
		MutedColor:       tcell.ColorDarkGray,
		UserBubbleColor:  tcell.ColorBlue,
		AIBubbleColor:    tcell.ColorDarkSlateGray,
		TableCursorFg:    tcell.ColorWhite,
		TableCursorBg:    tcell.ColorRebeccaPurple,
		FlashInfoColor:   tcell.ColorDarkGoldenrod,
		FlashOKColor:     tcell.ColorDarkGreen,
		FlashErrColor:    tcell.ColorRed,
		FieldErrorColor:  tcell.ColorRed,
		InputBorderColor: tcell.ColorRebeccaPurple,
	}
}

// ForDarkMode picks the palette matching the persisted flag.
func ForDarkMode(dark bool) *Theme {
	if dark {
		return Dark()
	}
	return Light()
}
