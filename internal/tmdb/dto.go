package tmdb

// listResponse is the envelope for every paginated list endpoint
type listResponse[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// mediaItem is a list entry for either kind. Movies carry title/release_date,
// TV carries name/first_air_date.
type mediaItem struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
}

// mediaDetail is the flat detail object for either kind. The top-level
// identity fields are pointers so that absence can be told apart from zero.
type mediaDetail struct {
	ID           *int    `json:"id"`
	Title        *string `json:"title"`
	Name         *string `json:"name"`
	Overview     *string `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	Tagline      string  `json:"tagline"`

	Genres              []genre          `json:"genres"`
	SpokenLanguages     []spokenLanguage `json:"spoken_languages"`
	ProductionCompanies []company        `json:"production_companies"`

	// Movie
	ReleaseDate         string      `json:"release_date"`
	Runtime             int         `json:"runtime"`
	BelongsToCollection *collection `json:"belongs_to_collection"`

	// TV
	FirstAirDate string   `json:"first_air_date"`
	Seasons      []season `json:"seasons"`
}

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type spokenLanguage struct {
	ISO6391     string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

type company struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	LogoPath *string `json:"logo_path"`
}

type collection struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
}

type season struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	SeasonNumber int     `json:"season_number"`
	EpisodeCount int     `json:"episode_count"`
	PosterPath   *string `json:"poster_path"`
}

type review struct {
	ID            string        `json:"id"`
	Author        string        `json:"author"`
	AuthorDetails authorDetails `json:"author_details"`
	Content       string        `json:"content"`
	CreatedAt     string        `json:"created_at"`
}

type authorDetails struct {
	Name       string   `json:"name"`
	Username   string   `json:"username"`
	AvatarPath *string  `json:"avatar_path"`
	Rating     *float64 `json:"rating"`
}

type creditsResponse struct {
	ID   int          `json:"id"`
	Cast []castCredit `json:"cast"`
	Crew []crewCredit `json:"crew"`
}

type castCredit struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
}

type crewCredit struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Department  string  `json:"department"`
	Job         string  `json:"job"`
	ProfilePath *string `json:"profile_path"`
}
