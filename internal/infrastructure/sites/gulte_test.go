package sites

import (
	"strings"
	"testing"

	"cinewire/internal/domain"
)

const gulteReview = `<!DOCTYPE html>
<html>
<head><title>Devara Review</title></head>
<body>
<div class="single-content">
  <h1>Devara Review</h1>
  <ul class="movie-info">
    <li>Cast: NTR, Janhvi Kapoor</li>
    <li>Director: Koratala Siva</li>
    <li>Banner: Yuvasudha Arts</li>
    <li>Runtime: 178 minutes</li>
  </ul>
  <img src="/wp-content/uploads/devara-still.jpg" />
  <h2>Story:</h2>
  <p>The sea village of Ratnagiri lives under Devara's shadow.</p>
  <h2>Performances:</h2>
  <p>NTR shines in both roles.</p>
  <h2>Verdict:</h2>
  <p>A watchable action drama. Rating: 3/5</p>
</div>
</body>
</html>`

func TestGulteExtractReview(t *testing.T) {
	t.Parallel()

	e := NewGulte()
	content, err := e.Extract("https://www.gulte.com/moviews/123457/devara-movie-review", []byte(gulteReview))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if content.Title != "Devara" {
		t.Fatalf("title: %q", content.Title)
	}
	if content.Rating != 3 || content.RatingScale != 5 {
		t.Fatalf("rating: %v/%v", content.Rating, content.RatingScale)
	}
	if content.Cast != "NTR, Janhvi Kapoor" {
		t.Fatalf("cast: %q", content.Cast)
	}
	if content.Director != "Koratala Siva" {
		t.Fatalf("director: %q", content.Director)
	}
	if content.Runtime != "178 minutes" {
		t.Fatalf("runtime: %q", content.Runtime)
	}
	if content.ProductionCrew["banner"] != "Yuvasudha Arts" {
		t.Fatalf("banner: %q", content.ProductionCrew["banner"])
	}
	if content.PosterImage != "/wp-content/uploads/devara-still.jpg" {
		t.Fatalf("poster fallback: %q", content.PosterImage)
	}
	if got := content.Section(domain.SectionPlot); !strings.Contains(got, "Ratnagiri") {
		t.Fatalf("plot: %q", got)
	}
	if got := content.Section(domain.SectionPerformances); !strings.Contains(got, "both roles") {
		t.Fatalf("performances: %q", got)
	}
}

func TestGulteMatches(t *testing.T) {
	t.Parallel()

	if !NewGulte().Matches("www.gulte.com") {
		t.Fatal("must match own host")
	}
	if NewGulte().Matches("www.123telugu.com") {
		t.Fatal("must not match other hosts")
	}
}
