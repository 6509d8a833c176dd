package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
)

// playlistPage is a self-contained player for the exported videos. It assumes
// the video files sit next to it in the unpacked archive and advances through
// them automatically.
var playlistPage = template.Must(template.New("playlist").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} - Story Playlist</title>
<style>
  body { margin: 0; background: #0b0b0f; color: #f5f5f5; font-family: sans-serif;
         display: flex; flex-direction: column; align-items: center; }
  h1 { font-size: 1.2rem; margin: 1rem 0 0.5rem; }
  video { max-width: 90vw; max-height: 75vh; background: #000; }
  #status { margin: 0.75rem; color: #9a9aa5; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<video id="player" controls autoplay></video>
<p id="status"></p>
<script>
  const files = {{.Files}};
  const player = document.getElementById("player");
  const status = document.getElementById("status");
  let index = 0;

  function play(i) {
    player.src = files[i];
    status.textContent = "Scene " + (i + 1) + " of " + files.length;
    player.play();
  }

  player.addEventListener("ended", () => {
    index++;
    if (index < files.length) {
      play(index);
    } else {
      status.textContent = "Playlist finished";
    }
  });

  play(0);
</script>
</body>
</html>
`))

// playlistHTML renders the player page for an ordered list of video file names.
func playlistHTML(title string, files []string) ([]byte, error) {
	list, err := json.Marshal(files)
	if err != nil {
		return nil, fmt.Errorf("marshal playlist files: %w", err)
	}
	if title == "" {
		title = "Ad Story"
	}
	var buf bytes.Buffer
	err = playlistPage.Execute(&buf, struct {
		Title string
		Files template.JS
	}{Title: title, Files: template.JS(list)})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
