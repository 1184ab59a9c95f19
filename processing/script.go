package processing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Makky101/AI-STORYBOARD-MAKER/models"
)

// Script is the structured output contract required of the text model.
type Script struct {
	Scenes []SceneOutline `json:"scenes" jsonschema_description:"The ordered list of scenes that make up the storyboard. Aim for 4-8 scenes."`
}

// SceneOutline represents a single scene's details
type SceneOutline struct {
	SceneNumber int    `json:"scene_number" jsonschema_description:"Position of the scene in the storyboard, starting at 1 and ascending."`
	Title       string `json:"title" jsonschema_description:"A short evocative title for the scene."`
	Location    string `json:"location" jsonschema_description:"Where the scene takes place, e.g. 'INT. ABANDONED GREENHOUSE - DAY'."`
	Description string `json:"description" jsonschema_description:"A visual description of the setting and framing of the scene."`
	Action      string `json:"action" jsonschema_description:"What happens in the scene, written as screenplay action lines."`
	Mood        string `json:"mood" jsonschema_description:"The emotional tone of the scene in a few words."`
	ImagePrompt string `json:"image_prompt" jsonschema_description:"A single detailed text-to-image prompt that illustrates this scene, including style and composition."`
}

var scriptSchema = GenerateSchema[Script]()

const scriptTimeout = 60 * time.Second

// GenerateScript turns a free-text movie idea into an ordered list of scenes.
// Any failure aborts the whole call; no partial script is returned.
func (c *Client) GenerateScript(ctx context.Context, idea string) ([]models.Scene, error) {
	if strings.TrimSpace(idea) == "" {
		return nil, fmt.Errorf("idea must not be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, scriptTimeout)
	defer cancel()

	prompt := fmt.Sprintf(`You are a storyboard artist and screenwriter.
Turn the following movie idea into a storyboard script of 4 to 8 scenes.

Movie idea: "%s"

For each scene provide:
- scene_number: its position in the story, starting at 1
- title: a short evocative title
- location: where it takes place, screenplay style
- description: the visual setting and framing
- action: what happens, as screenplay action lines
- mood: the emotional tone in a few words
- image_prompt: one detailed text-to-image prompt that would illustrate the scene, with consistent cinematic style across all scenes`,
		idea)

	script, err := getStructuredResponse[Script](ctx, c.api, prompt, scriptSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to generate script: %w", err)
	}

	if len(script.Scenes) == 0 {
		return nil, fmt.Errorf("model returned no scenes")
	}

	// Downstream code only assumes ascending scene_number; enforce it here
	// rather than trusting the model's output order.
	sort.SliceStable(script.Scenes, func(i, j int) bool {
		return script.Scenes[i].SceneNumber < script.Scenes[j].SceneNumber
	})

	scenes := make([]models.Scene, 0, len(script.Scenes))
	for _, s := range script.Scenes {
		if s.SceneNumber <= 0 {
			return nil, fmt.Errorf("model returned invalid scene_number %d", s.SceneNumber)
		}
		scenes = append(scenes, models.Scene{
			SceneNumber: s.SceneNumber,
			Title:       s.Title,
			Location:    s.Location,
			Description: s.Description,
			Action:      s.Action,
			Mood:        s.Mood,
			ImagePrompt: s.ImagePrompt,
		})
	}

	return scenes, nil
}
