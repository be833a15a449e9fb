package components

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// Layout constants for the detail view
const (
	// Title, meta line, rating/genres line, blank
	DetailHeaderLines = 4
	DetailFooterLines = 1

	maxCastShown    = 12
	maxReviewsShown = 3
	maxReviewRunes  = 600
	maxBodyWidth    = 100
)

// DetailView shows the full record of a single title.
// Header and footer are fixed; the body scrolls in a viewport.
type DetailView struct {
	summary domain.MediaSummary
	detail  *domain.MediaDetail
	err     error
	loading bool

	extras        service.DetailExtras
	extrasLoading bool

	imageBaseURL string

	viewport viewport.Model
	width    int
	height   int
	frame    int
}

// NewDetailView creates a detail view that renders image links against imageBaseURL
func NewDetailView(imageBaseURL string) DetailView {
	return DetailView{
		imageBaseURL: imageBaseURL,
		viewport:     viewport.New(0, 0),
	}
}

// Open starts showing summary while its detail loads
func (d *DetailView) Open(summary domain.MediaSummary) {
	d.summary = summary
	d.detail = nil
	d.err = nil
	d.loading = true
	d.extras = service.DetailExtras{}
	d.extrasLoading = true
	d.viewport.GotoTop()
	d.refresh()
}

// Key returns the identity of the title being shown
func (d DetailView) Key() domain.MediaKey {
	return d.summary.Key()
}

// Summary returns the list-level record of the title being shown
func (d DetailView) Summary() domain.MediaSummary {
	return d.summary
}

// SetLoading marks the detail as being fetched again
func (d *DetailView) SetLoading() {
	d.loading = true
	d.err = nil
	d.refresh()
}

// SetDetail applies the result of a detail fetch
func (d *DetailView) SetDetail(detail *domain.MediaDetail, err error) {
	d.loading = false
	d.detail = detail
	d.err = err
	if detail != nil {
		d.summary = detail.MediaSummary
	}
	d.refresh()
}

// SetExtrasLoading marks reviews and credits as being fetched
func (d *DetailView) SetExtrasLoading() {
	d.extrasLoading = true
	d.refresh()
}

// SetExtras applies reviews and credits. Each half may have failed independently.
func (d *DetailView) SetExtras(extras service.DetailExtras) {
	d.extras = extras
	d.extrasLoading = false
	d.refresh()
}

// Failed reports whether the detail fetch failed
func (d DetailView) Failed() bool {
	return d.err != nil
}

// ExtrasFailed reports whether reviews or credits failed to load
func (d DetailView) ExtrasFailed() bool {
	return d.extras.ReviewsErr != nil || d.extras.CreditsErr != nil
}

// NotFound reports whether the catalog has no such title
func (d DetailView) NotFound() bool {
	return errors.Is(d.err, domain.ErrNotFound)
}

// SetSize updates the component dimensions
func (d *DetailView) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.viewport.Width = d.contentWidth()
	d.viewport.Height = height - BorderHeight - DetailHeaderLines - DetailFooterLines
	if d.viewport.Height < 1 {
		d.viewport.Height = 1
	}
	d.refresh()
}

// SetSpinnerFrame advances the loading spinner
func (d *DetailView) SetSpinnerFrame(frame int) {
	d.frame = frame
}

func (d DetailView) contentWidth() int {
	w := d.width - BorderWidth - HorizontalPadding
	if w < 10 {
		w = 10
	}
	return w
}

// Update scrolls the body
func (d DetailView) Update(msg tea.Msg) (DetailView, tea.Cmd) {
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return d, cmd
}

// View renders the component
func (d DetailView) View() string {
	width := d.contentWidth()

	footer := " "
	switch {
	case d.loading:
		footer = styles.Spinner(d.frame) + " " + styles.DimStyle.Render("Loading details...")
	case d.detail != nil && d.extrasLoading:
		footer = styles.Spinner(d.frame) + " " + styles.DimStyle.Render("Loading cast and reviews...")
	case d.detail != nil && !d.viewport.AtBottom():
		footer = styles.DimStyle.Render(fmt.Sprintf("↓ more (%.0f%%)", d.viewport.ScrollPercent()*100))
	}

	content := d.renderHeader(width) + "\n" + d.viewport.View() + "\n" + footer

	// Width and Height include padding but not the border
	return styles.ActiveBorder.
		Padding(0, 1).
		Width(d.width - BorderWidth).
		Height(d.height - BorderHeight).
		Render(content)
}

// refresh re-renders the scrollable body into the viewport
func (d *DetailView) refresh() {
	d.viewport.SetContent(d.renderBody(d.contentWidth()))
}

func (d DetailView) renderHeader(width int) string {
	lines := make([]string, 0, DetailHeaderLines)
	lines = append(lines, styles.TitleStyle.Render(styles.Truncate(d.summary.Title, width)))

	var meta []string
	meta = append(meta, d.summary.Kind.Label())
	if d.detail != nil {
		if y := d.detail.ReleaseYear(); y > 0 {
			meta = append(meta, fmt.Sprintf("%d", y))
		}
		if rt := d.detail.FormattedRuntime(); rt != "" {
			meta = append(meta, rt)
		}
		if n := len(d.detail.Seasons); n > 0 {
			meta = append(meta, humanize.Comma(int64(n))+" seasons")
		}
	}
	lines = append(lines, styles.DimStyle.Render(styles.Truncate(strings.Join(meta, " · "), width)))

	var status []string
	if d.summary.Rating > 0 {
		status = append(status, ratingStyle(d.summary.Rating).Render(fmt.Sprintf("★ %.1f", d.summary.Rating)))
	}
	if d.detail != nil && len(d.detail.Genres) > 0 {
		status = append(status, styles.SubtitleStyle.Render(styles.Truncate(strings.Join(d.detail.GenreNames(), ", "), width-10)))
	}
	lines = append(lines, strings.Join(status, "   "))

	return strings.Join(lines, "\n") + "\n"
}

func ratingStyle(r float64) lipgloss.Style {
	switch {
	case r >= 7:
		return lipgloss.NewStyle().Foreground(styles.Green)
	case r >= 5:
		return lipgloss.NewStyle().Foreground(styles.Gold)
	default:
		return lipgloss.NewStyle().Foreground(styles.Red)
	}
}

func (d DetailView) renderBody(width int) string {
	if width > maxBodyWidth {
		width = maxBodyWidth
	}

	switch {
	case d.loading:
		return ""
	case d.NotFound():
		return styles.ErrorStyle.Render("This title could not be found in the catalog.") + "\n" +
			styles.DimStyle.Render("esc to go back")
	case d.err != nil:
		return styles.RenderError(d.err, width, "press r to retry, esc to go back")
	case d.detail == nil:
		return ""
	}

	det := d.detail
	var b strings.Builder

	if det.Tagline != "" {
		b.WriteString(styles.AccentStyle.Italic(true).Render(styles.WordWrap(det.Tagline, width)))
		b.WriteString("\n\n")
	}
	overview := det.Overview
	if overview == "" {
		overview = "No overview available."
	}
	b.WriteString(styles.SubtitleStyle.Render(styles.WordWrap(overview, width)))
	b.WriteString("\n")

	b.WriteString(d.renderFacts(width))
	b.WriteString(d.renderSeasons())
	b.WriteString(d.renderImages(width))
	b.WriteString(d.renderCredits(width))
	b.WriteString(d.renderReviews(width))

	return strings.TrimRight(b.String(), "\n")
}

func section(title string) string {
	return styles.SectionStyle.Render(title) + "\n"
}

func fact(label, value string, width int) string {
	if value == "" {
		return ""
	}
	return styles.DimStyle.Render(label+": ") + styles.WordWrap(value, width-len(label)-2) + "\n"
}

func (d DetailView) renderFacts(width int) string {
	det := d.detail

	dateLabel := "Released"
	if det.Kind == domain.KindTV {
		dateLabel = "First aired"
	}

	languages := make([]string, len(det.Languages))
	for i, l := range det.Languages {
		languages[i] = l.Name
	}
	companies := make([]string, len(det.Companies))
	for i, c := range det.Companies {
		companies[i] = c.Name
	}
	collection := ""
	if det.Collection != nil {
		collection = det.Collection.Name
	}

	facts := fact(dateLabel, det.FormattedReleaseDate(), width) +
		fact("Runtime", det.FormattedRuntime(), width) +
		fact("Languages", strings.Join(languages, ", "), width) +
		fact("Production", strings.Join(companies, ", "), width) +
		fact("Collection", collection, width)
	if facts == "" {
		return ""
	}
	return section("Details") + facts
}

func (d DetailView) renderSeasons() string {
	if len(d.detail.Seasons) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(section("Seasons"))
	for _, s := range d.detail.Seasons {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("Season %d", s.Number)
		}
		b.WriteString(name)
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf(" · %s episodes", humanize.Comma(int64(s.EpisodeCount)))))
		b.WriteString("\n")
	}
	return b.String()
}

func (d DetailView) renderImages(width int) string {
	poster := domain.ImageURL(d.imageBaseURL, domain.ImageW500, d.detail.PosterPath)
	backdrop := domain.ImageURL(d.imageBaseURL, domain.ImageW1280, d.detail.BackdropPath)
	if poster == "" && backdrop == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(section("Images"))
	if poster != "" {
		b.WriteString(styles.DimStyle.Render("Poster: ") + styles.LinkStyle.Render(styles.Truncate(poster, width-8)) + "\n")
	}
	if backdrop != "" {
		b.WriteString(styles.DimStyle.Render("Backdrop: ") + styles.LinkStyle.Render(styles.Truncate(backdrop, width-10)) + "\n")
	}
	return b.String()
}

func (d DetailView) renderCredits(width int) string {
	var b strings.Builder
	b.WriteString(section("Cast"))

	switch {
	case d.extrasLoading:
		b.WriteString(styles.DimStyle.Render("Loading..."))
		b.WriteString("\n")
		return b.String()
	case d.extras.CreditsErr != nil:
		b.WriteString(styles.RenderError(d.extras.CreditsErr, width, "press r to retry"))
		b.WriteString("\n")
		return b.String()
	}

	actors, directors := domain.SplitCredits(d.extras.Credits)
	if len(actors) == 0 && len(directors) == 0 {
		b.WriteString(styles.DimStyle.Render("No credits listed"))
		b.WriteString("\n")
		return b.String()
	}

	if len(directors) > 0 {
		names := make([]string, len(directors))
		for i, c := range directors {
			names[i] = c.Name
		}
		b.WriteString(fact("Directed by", strings.Join(names, ", "), width))
	}

	shown := actors
	if len(shown) > maxCastShown {
		shown = shown[:maxCastShown]
	}
	for _, c := range shown {
		line := c.Name
		if c.Character != "" {
			line += styles.DimStyle.Render(" as " + c.Character)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if extra := len(actors) - len(shown); extra > 0 {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("... and %d more", extra)))
		b.WriteString("\n")
	}
	return b.String()
}

func (d DetailView) renderReviews(width int) string {
	var b strings.Builder
	b.WriteString(section("Reviews"))

	switch {
	case d.extrasLoading:
		b.WriteString(styles.DimStyle.Render("Loading..."))
		b.WriteString("\n")
		return b.String()
	case d.extras.ReviewsErr != nil:
		b.WriteString(styles.RenderError(d.extras.ReviewsErr, width, "press r to retry"))
		b.WriteString("\n")
		return b.String()
	case len(d.extras.Reviews) == 0:
		b.WriteString(styles.DimStyle.Render("No reviews yet"))
		b.WriteString("\n")
		return b.String()
	}

	shown := d.extras.Reviews
	if len(shown) > maxReviewsShown {
		shown = shown[:maxReviewsShown]
	}
	for i, r := range shown {
		if i > 0 {
			b.WriteString("\n")
		}
		head := styles.TitleStyle.Render(r.DisplayAuthor())
		if r.Rating > 0 {
			head += "  " + ratingStyle(r.Rating).Render(fmt.Sprintf("★ %.0f/10", r.Rating))
		}
		if !r.CreatedAt.IsZero() {
			head += "  " + styles.DimStyle.Render(humanize.Time(r.CreatedAt))
		}
		b.WriteString(head)
		b.WriteString("\n")

		content := []rune(strings.TrimSpace(r.Content))
		text := string(content)
		if len(content) > maxReviewRunes {
			text = string(content[:maxReviewRunes]) + "..."
		}
		b.WriteString(styles.SubtitleStyle.Render(styles.WordWrap(text, width)))
		b.WriteString("\n")
	}
	if extra := len(d.extras.Reviews) - len(shown); extra > 0 {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("... and %d more", extra)))
		b.WriteString("\n")
	}
	return b.String()
}
