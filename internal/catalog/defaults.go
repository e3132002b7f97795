package catalog

import "moodflow/backend/internal/model"

var defaultMoods = []model.Mood{
	{
		ID:          model.MoodCalm,
		Name:        "Calm",
		Description: "Find your inner peace and focus",
		Icon:        "🧘",
		ColorToken:  "hsl(168, 76%, 50%)",
		PlaylistID:  "PLrAl6rYgs4IvGFMaBqq2gF7gOQGGHdZhq",
		Keywords:    []string{"peaceful", "meditation", "ambient", "nature"},
	},
	{
		ID:          model.MoodStressed,
		Name:        "Stressed",
		Description: "Relax and unwind with soothing sounds",
		Icon:        "😌",
		ColorToken:  "hsl(250, 70%, 60%)",
		PlaylistID:  "PLrAl6rYgs4IuO4Up_ubpX-fNOG6cDnA5y",
		Keywords:    []string{"relaxing", "stress relief", "calming", "therapeutic"},
	},
	{
		ID:          model.MoodExcited,
		Name:        "Excited",
		Description: "Channel your energy with upbeat vibes",
		Icon:        "⚡",
		ColorToken:  "hsl(340, 85%, 65%)",
		PlaylistID:  "PLrAl6rYgs4IvHl4iO-Dy_XVh5U7KShX2i",
		Keywords:    []string{"energetic", "upbeat", "motivational", "high energy"},
	},
	{
		ID:          model.MoodTired,
		Name:        "Tired",
		Description: "Boost your energy and stay focused",
		Icon:        "☕",
		ColorToken:  "hsl(35, 85%, 65%)",
		PlaylistID:  "PLrAl6rYgs4IswKugr-Pu8zCMDGaWB9FrQ",
		Keywords:    []string{"focus music", "energizing", "coffee shop", "productivity"},
	},
}

var defaultQuotes = []model.Quote{
	{Text: "Focus on progress, not perfection.", Author: "Anonymous"},
	{Text: "The way to get started is to quit talking and begin doing.", Author: "Walt Disney"},
	{Text: "Your limitation, it's only your imagination.", Author: "Anonymous"},
	{Text: "Great things never come from comfort zones.", Author: "Anonymous"},
	{Text: "The secret of getting ahead is getting started.", Author: "Mark Twain"},
	{Text: "Don't watch the clock; do what it does. Keep going.", Author: "Sam Levenson"},
	{Text: "The harder you work for something, the greater you'll feel when you achieve it.", Author: "Anonymous"},
	{Text: "Dream bigger. Do bigger.", Author: "Anonymous"},
	{Text: "Success doesn't just find you. You have to go out and get it.", Author: "Anonymous"},
	{Text: "Sometimes we're tested not to show our weaknesses, but to discover our strengths.", Author: "Anonymous"},
	{Text: "Don't stop when you're tired. Stop when you're done.", Author: "Anonymous"},
	{Text: "Wake up with determination. Go to bed with satisfaction.", Author: "Anonymous"},
}
