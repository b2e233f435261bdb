package engine

import (
	"strings"
	"text/template"
)

// Metadata carries the optional recording context the caller supplies.
// Empty fields are omitted from the prompt.
type Metadata struct {
	ContentType string
	Topic       string
	Description string
	Language    string
}

type promptData struct {
	Metadata
	Speakers int
}

var promptTmpl = template.Must(template.New("transcribe").Parse(
	`TASK: Perform accurate transcription and speaker diarization for the provided {{if .ContentType}}{{.ContentType}}{{else}}audio file{{end}}.

CONTEXT:
{{if .Description}}- Description: {{.Description}}
{{end}}{{if .Topic}}- Topic: {{.Topic}}
{{end}}{{if .Language}}- Language: {{.Language}}
{{end}}- Number of distinct speakers: {{.Speakers}}

INSTRUCTIONS:
1. Transcribe the audio accurately.
2. Perform speaker diarization: Identify the {{.Speakers}} distinct speakers present in the audio.
3. Consistently label each speaker throughout the entire transcript using the format "Speaker 1:", "Speaker 2:", ..., "Speaker {{.Speakers}}:". Ensure that each label (e.g., "Speaker 1") always refers to the same individual.
4. Include precise timestamps in [HH:MM:SS] format at the beginning of each speaker's utterance or segment.

OUTPUT FORMAT:
The output MUST strictly follow this format for each line:
[HH:MM:SS] Speaker X: Dialogue text...

EXAMPLE:
[00:00:05] Speaker 1: Hello, welcome to the meeting.
[00:00:08] Speaker 2: Thanks for having me.
[00:00:10] Speaker 1: Let's get started.

CRITICAL: Adhere strictly to the requested speaker labeling based on the {{.Speakers}} distinct speakers identified. Maintain consistency in labeling throughout the transcript.

If there is music or a short jingle playing, signify like so:
[01:02] [MUSIC] or [01:02] [JINGLE]

If you can identify the name of the music or jingle playing then use that instead, eg:
[01:02] [Firework by Katy Perry] or [01:02] [The Sofa Shop jingle]

If there is some other sound playing try to identify the sound, eg:
[01:02] [Bell ringing]

Each individual caption should be quite short, a few short sentences at most.

Signify the end of the episode with [END].

Don't use any markdown formatting, like bolding or italics.

Only use characters from the English alphabet, unless you genuinely believe foreign characters are correct.

It is important that you use the correct words and spell everything correctly. Use the context to help.`))

// BuildPrompt renders the instruction text sent alongside the audio. It is
// a pure function of the metadata and speaker count.
func BuildPrompt(meta Metadata, speakers int) (string, error) {
	if speakers < 1 {
		speakers = 1
	}

	var b strings.Builder
	if err := promptTmpl.Execute(&b, promptData{Metadata: meta, Speakers: speakers}); err != nil {
		return "", err
	}
	return b.String(), nil
}
