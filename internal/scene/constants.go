package scene

import "math/rand/v2"

// Creative vocabulary offered by the studio form and used by the
// "surprise me" randomizer.
var (
	Eras = []string{"1920s", "1950s", "1960s", "1970s", "1980s", "1990s", "2000s", "2010s", "2020s", "Futuristic"}

	Tones = []string{"Wholesome", "Edgy", "Nostalgic", "Sophisticated", "Humorous", "Dramatic", "Minimalist", "Surreal"}

	AspectRatios = []string{"16:9", "9:16", "1:1", "4:3", "3:4"}

	// Voices maps display names to prebuilt TTS voice ids.
	Voices = []Voice{
		{Name: "Kore (Female)", Value: "Kore"},
		{Name: "Puck (Male)", Value: "Puck"},
		{Name: "Charon (Male)", Value: "Charon"},
		{Name: "Fenrir (Male)", Value: "Fenrir"},
		{Name: "Zephyr (Female)", Value: "Zephyr"},
	}
)

// Voice is a selectable narration voice.
type Voice struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SurpriseBrief builds a draft around a product idea with randomized era,
// tone, aspect ratio, and voice.
func SurpriseBrief(product, visualIdea string) Brief {
	return Brief{
		Product:     product,
		Era:         Eras[rand.IntN(len(Eras))],
		Tone:        Tones[rand.IntN(len(Tones))],
		AspectRatio: AspectRatios[rand.IntN(len(AspectRatios))],
		VisualType:  VisualVideo,
		Voice:       Voices[rand.IntN(len(Voices))].Value,
		VisualIdea:  visualIdea,
	}
}

// DefaultBrief is the draft request a fresh session starts from.
func DefaultBrief() Brief {
	return Brief{
		Product:     "Starlight Soda",
		Era:         "1980s",
		Tone:        "Nostalgic",
		AspectRatio: "16:9",
		VisualType:  VisualVideo,
		Voice:       "Puck",
		VisualIdea:  "Teenagers at a retro arcade, sharing a can of Starlight Soda under neon lights.",
	}
}
