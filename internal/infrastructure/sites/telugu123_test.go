package sites

import (
	"strings"
	"testing"

	"cinewire/internal/domain"
)

const telugu123Review = `<!DOCTYPE html>
<html>
<head>
<title>Devara Movie Review - 123telugu.com</title>
<meta property="og:title" content="Devara Movie Review" />
<meta property="og:image" content="https://www.123telugu.com/wp-content/devara-poster.jpg" />
</head>
<body>
<div class="post-content">
  <h1>Devara Movie Review</h1>
  <p><strong>Starring:</strong> NTR, Janhvi Kapoor, Saif Ali Khan</p>
  <p><strong>Director:</strong> Koratala Siva</p>
  <p>Producers: Sudhakar Mikkilineni, Kosaraju Harikrishna</p>
  <p>Music Director: Anirudh Ravichander</p>
  <p>Release Date: September 27, 2024</p>
  <h5>Story:</h5>
  <p>Devara, a feared man of the sea, turns against his own people to stop smuggling.</p>
  <p>Years later, his timid son Vara has to face the consequences.</p>
  <h5>Plus Points:</h5>
  <p>NTR's dual role performance.</p>
  <h5>Minus Points:</h5>
  <p>Predictable second half.</p>
  <h5>Technical Aspects:</h5>
  <p>Anirudh's score elevates the action blocks.</p>
  <h5>Verdict:</h5>
  <p>On the whole, Devara is a decent action drama.</p>
  <p>123telugu.com Rating: 3.25/5</p>
  <iframe src="https://www.youtube.com/embed/q4qUKVnvPJw"></iframe>
</div>
</body>
</html>`

func TestTelugu123ExtractReview(t *testing.T) {
	t.Parallel()

	e := NewTelugu123()
	content, err := e.Extract("https://www.123telugu.com/reviews/devara-review.html", []byte(telugu123Review))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if content.Title != "Devara" {
		t.Fatalf("title: %q", content.Title)
	}
	if content.Rating != 3.25 || content.RatingScale != 5 {
		t.Fatalf("rating: %v/%v", content.Rating, content.RatingScale)
	}
	if !strings.Contains(content.Cast, "NTR") {
		t.Fatalf("cast: %q", content.Cast)
	}
	if content.Director != "Koratala Siva" {
		t.Fatalf("director: %q", content.Director)
	}
	if content.ProductionCrew["music"] != "Anirudh Ravichander" {
		t.Fatalf("music: %q", content.ProductionCrew["music"])
	}
	if content.ReleaseDate != "September 27, 2024" {
		t.Fatalf("release date: %q", content.ReleaseDate)
	}
	if content.PosterImage != "https://www.123telugu.com/wp-content/devara-poster.jpg" {
		t.Fatalf("poster: %q", content.PosterImage)
	}
	if !strings.Contains(content.TrailerURL, "youtube.com/embed") {
		t.Fatalf("trailer: %q", content.TrailerURL)
	}

	if got := content.Section(domain.SectionPlot); !strings.Contains(got, "feared man of the sea") {
		t.Fatalf("plot: %q", got)
	}
	if got := content.Section(domain.SectionHighlights); got != "NTR's dual role performance." {
		t.Fatalf("highlights: %q", got)
	}
	if got := content.Section(domain.SectionVerdict); !strings.Contains(got, "decent action drama") {
		t.Fatalf("verdict: %q", got)
	}
	if !content.HasRating() {
		t.Fatalf("rating not extracted: %v/%v", content.Rating, content.RatingScale)
	}
	if content.SourceName != "123telugu" {
		t.Fatalf("source name: %q", content.SourceName)
	}
}

func TestTelugu123ExtractArticleWithoutSections(t *testing.T) {
	t.Parallel()

	html := `<html><body><div class="post-content">
	<h1>Devara creates a new record</h1>
	<p>The pre-release business of Devara has broken previous records.</p>
	<p>Trade analysts expect a massive opening weekend.</p>
	</div></body></html>`

	e := NewTelugu123()
	content, err := e.Extract("https://www.123telugu.com/telugu-news/devara-record.html", []byte(html))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if len(content.Sections) != 0 {
		t.Fatalf("unexpected sections: %+v", content.Sections)
	}
	if !strings.Contains(content.Body, "pre-release business") {
		t.Fatalf("body not collected: %q", content.Body)
	}
	if content.HasRating() {
		t.Fatalf("news page must carry no rating: %v/%v", content.Rating, content.RatingScale)
	}
}

func TestTelugu123Matches(t *testing.T) {
	t.Parallel()

	e := NewTelugu123()
	if !e.Matches("www.123telugu.com") {
		t.Fatal("must match own host")
	}
	if e.Matches("www.gulte.com") {
		t.Fatal("must not match other hosts")
	}
}
