package model

// ViewState is what the terminal display needs besides the frame itself.
type ViewState struct {
	Period Period
	Paused bool
	Source string
	Events int

	ShowHelp      bool
	StatusMessage string

	IsLoading      bool
	LoadingMessage string
}
