package apifootball

type fixturesResponse struct {
	Get        string        `json:"get"`
	Parameters any           `json:"parameters"`
	Errors     any           `json:"errors"`
	Results    int           `json:"results"`
	Paging     paging        `json:"paging"`
	Response   []fixtureItem `json:"response"`
}

type paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

type fixtureItem struct {
	Fixture *fixtureInfo `json:"fixture"`
	League  *leagueInfo  `json:"league"`
	Teams   *teamsPair   `json:"teams"`
	Goals   goals        `json:"goals"`
}

type fixtureInfo struct {
	ID        int64         `json:"id"`
	Referee   *string       `json:"referee"`
	Timezone  string        `json:"timezone"`
	Date      string        `json:"date"`
	Timestamp int64         `json:"timestamp"`
	Venue     venue         `json:"venue"`
	Status    fixtureStatus `json:"status"`
}

type venue struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

type fixtureStatus struct {
	Long    string `json:"long"`
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed"`
}

type leagueInfo struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Logo    string `json:"logo"`
	Flag    string `json:"flag"`
	Season  int    `json:"season"`
	Round   string `json:"round"`
}

type teamsPair struct {
	Home *teamInfo `json:"home"`
	Away *teamInfo `json:"away"`
}

type teamInfo struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
	Winner *bool  `json:"winner"`
}

type goals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}
