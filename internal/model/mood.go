package model

type MoodType string

const (
	MoodCalm     MoodType = "calm"
	MoodStressed MoodType = "stressed"
	MoodExcited  MoodType = "excited"
	MoodTired    MoodType = "tired"
)

// MoodTypes lists the fixed enumeration in display order.
var MoodTypes = []MoodType{MoodCalm, MoodStressed, MoodExcited, MoodTired}

func (m MoodType) Valid() bool {
	switch m {
	case MoodCalm, MoodStressed, MoodExcited, MoodTired:
		return true
	}
	return false
}

type Mood struct {
	ID          MoodType `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Icon        string   `json:"icon" yaml:"icon"`
	ColorToken  string   `json:"colorToken" yaml:"color_token"`
	PlaylistID  string   `json:"playlistId" yaml:"playlist_id"`
	Keywords    []string `json:"keywords" yaml:"keywords"`
}

// Theme is the active presentation theme of a workspace. A zero Theme means
// no mood is selected.
type Theme struct {
	Mood       MoodType `json:"mood,omitempty"`
	ColorToken string   `json:"colorToken,omitempty"`
	ClassName  string   `json:"className,omitempty"`
}

func ThemeFor(mood Mood) Theme {
	return Theme{
		Mood:       mood.ID,
		ColorToken: mood.ColorToken,
		ClassName:  "mood-" + string(mood.ID),
	}
}

type Quote struct {
	Text   string `json:"text" yaml:"text"`
	Author string `json:"author" yaml:"author"`
}
