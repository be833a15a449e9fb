package tmdb

import (
	"errors"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const untitled = "Untitled"

var (
	errMissingID       = errors.New("missing id")
	errMissingTitle    = errors.New("missing title")
	errMissingOverview = errors.New("missing overview")
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// MapSummary converts a list entry to a domain summary
func MapSummary(kind domain.MediaKind, m mediaItem) domain.MediaSummary {
	title := m.Title
	if title == "" {
		title = m.Name
	}
	if title == "" {
		title = untitled
	}
	return domain.MediaSummary{
		ID:           m.ID,
		Kind:         kind,
		Title:        title,
		Overview:     m.Overview,
		PosterPath:   deref(m.PosterPath),
		BackdropPath: deref(m.BackdropPath),
		Rating:       m.VoteAverage,
	}
}

// MapSummaries converts a page of list entries
func MapSummaries(kind domain.MediaKind, items []mediaItem) []domain.MediaSummary {
	result := make([]domain.MediaSummary, 0, len(items))
	for _, m := range items {
		result = append(result, MapSummary(kind, m))
	}
	return result
}

// MapDetail converts a detail payload. id, title (or name) and overview are
// required; everything else defaults to its zero value.
func MapDetail(kind domain.MediaKind, d mediaDetail) (*domain.MediaDetail, error) {
	if d.ID == nil {
		return nil, &domain.DecodeError{Err: errMissingID}
	}
	title := deref(d.Title)
	if title == "" {
		title = deref(d.Name)
	}
	if title == "" {
		return nil, &domain.DecodeError{Err: errMissingTitle}
	}
	if d.Overview == nil {
		return nil, &domain.DecodeError{Err: errMissingOverview}
	}

	detail := &domain.MediaDetail{
		MediaSummary: domain.MediaSummary{
			ID:           *d.ID,
			Kind:         kind,
			Title:        title,
			Overview:     *d.Overview,
			PosterPath:   deref(d.PosterPath),
			BackdropPath: deref(d.BackdropPath),
			Rating:       d.VoteAverage,
		},
		Tagline: d.Tagline,
	}

	for _, g := range d.Genres {
		detail.Genres = append(detail.Genres, domain.Genre{ID: g.ID, Name: g.Name})
	}
	for _, l := range d.SpokenLanguages {
		detail.Languages = append(detail.Languages, mapLanguage(l))
	}
	for _, c := range d.ProductionCompanies {
		detail.Companies = append(detail.Companies, domain.Company{
			ID:       c.ID,
			Name:     c.Name,
			LogoPath: deref(c.LogoPath),
		})
	}

	switch kind {
	case domain.KindMovie:
		detail.ReleaseDate = d.ReleaseDate
		detail.Runtime = d.Runtime
		if c := d.BelongsToCollection; c != nil {
			detail.Collection = &domain.Collection{
				ID:           c.ID,
				Name:         c.Name,
				PosterPath:   deref(c.PosterPath),
				BackdropPath: deref(c.BackdropPath),
			}
		}
	case domain.KindTV:
		detail.ReleaseDate = d.FirstAirDate
		for _, s := range d.Seasons {
			detail.Seasons = append(detail.Seasons, domain.Season{
				ID:           s.ID,
				Name:         s.Name,
				Number:       s.SeasonNumber,
				EpisodeCount: s.EpisodeCount,
				PosterPath:   deref(s.PosterPath),
			})
		}
	}

	return detail, nil
}

// mapLanguage prefers the payload's English name and falls back to the
// CLDR English display name for the ISO code.
func mapLanguage(l spokenLanguage) domain.Language {
	name := l.EnglishName
	if name == "" {
		name = languageName(l.ISO6391)
	}
	if name == "" {
		name = l.Name
	}
	return domain.Language{Code: l.ISO6391, Name: name}
}

func languageName(code string) string {
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	return display.English.Languages().Name(tag)
}

// MapReviews converts review payloads
func MapReviews(items []review) []domain.Review {
	result := make([]domain.Review, 0, len(items))
	for _, r := range items {
		rv := domain.Review{
			ID:         r.ID,
			Author:     r.Author,
			Username:   r.AuthorDetails.Username,
			AvatarPath: deref(r.AuthorDetails.AvatarPath),
			Content:    r.Content,
		}
		if rv.Author == "" {
			rv.Author = r.AuthorDetails.Name
		}
		if r.AuthorDetails.Rating != nil {
			rv.Rating = *r.AuthorDetails.Rating
		}
		if t, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
			rv.CreatedAt = t
		}
		result = append(result, rv)
	}
	return result
}

// MapCredits flattens cast and directing crew into credit order:
// cast first, then directors. Cast entries are always Acting.
func MapCredits(c creditsResponse) []domain.CastMember {
	result := make([]domain.CastMember, 0, len(c.Cast))
	for _, m := range c.Cast {
		result = append(result, domain.CastMember{
			ID:          m.ID,
			Name:        m.Name,
			Character:   m.Character,
			Department:  domain.DepartmentActing,
			ProfilePath: deref(m.ProfilePath),
		})
	}
	directors := make(map[int]bool)
	for _, m := range c.Crew {
		if m.Job != "Director" || directors[m.ID] {
			continue
		}
		directors[m.ID] = true
		result = append(result, domain.CastMember{
			ID:          m.ID,
			Name:        m.Name,
			Character:   m.Job,
			Department:  domain.DepartmentDirecting,
			ProfilePath: deref(m.ProfilePath),
		})
	}
	return result
}
