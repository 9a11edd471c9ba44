package site

var (
	Tagline = `Software engineer building calm, fast interfaces and the services behind them.`

	AboutMe = `I like building software that is both useful and pleasant to use, and I am always
	curious about how things work behind the scenes. Most of my projects start with a small idea
	and turn into a chance to learn something new, whether that is a different language, a new
	tool, or a tricky problem that needed a second look.`

	// HeroCaptions are shown in order over the three overlay windows of the hero sequence.
	HeroCaptions = []string{
		`Design that gets out of the way.`,
		`Systems that stay up.`,
		`Work that ships.`,
	}

	ContactIntro = `Have a project in mind or just want to say hello? Send a message and I will get back to you.`
)
