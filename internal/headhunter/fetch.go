package headhunter

import (
	"fmt"
	"math/rand"
	"net/url"
	"strconv"

	"github.com/spigell/hh-collector/internal/utils"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const vacanciesPath = "/vacancies"

// FetchRandom requests one page of vacancies at a random page offset and
// returns up to count items. The server may return fewer: short pages are
// not topped up. A failed request yields an empty list and a logged warning.
func (c *Client) FetchRandom(count int) *Vacancies {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(count))
	q.Set("page", strconv.Itoa(rand.Intn(maxRandomPage+1)))
	q.Set("random", "true")

	response, err := c.getPage(fmt.Sprintf("%s%s", c.APIURL, vacanciesPath), q)
	if err != nil {
		c.logger.Warn("fetching random vacancies failed", zap.Error(err))
		return &Vacancies{}
	}

	items := response.Items
	if len(items) > count {
		items = items[:count]
	}

	return c.decodeVacancies(items)
}

// FetchByEmployer walks the pages of one employer's vacancies up to the
// fixed ceiling, stopping early when the server reports no further pages.
// Items are concatenated in server response order. A failed page stops the
// walk and whatever was gathered so far is returned.
func (c *Client) FetchByEmployer(employerID int64) *Vacancies {
	q := url.Values{}
	q.Set("employer_id", strconv.FormatInt(employerID, 10))
	q.Set("per_page", perPage)

	var items []Item
	for page := 0; page < maxEmployerPages; page++ {
		q.Set("page", strconv.Itoa(page))

		response, err := c.getPage(fmt.Sprintf("%s%s", c.APIURL, vacanciesPath), q)
		if err != nil {
			c.logger.Warn("fetching employer vacancies failed",
				zap.Int64("employer_id", employerID),
				zap.Int("page", page),
				zap.Error(err),
			)
			break
		}

		items = append(items, response.Items...)

		if response.Pages <= page+1 {
			break
		}

		if err := utils.WaitFor(c.ctx, c.PageDelay); err != nil {
			break
		}
	}

	return c.decodeVacancies(items)
}

// decodeVacancies projects the generic envelope items into typed records.
func (c *Client) decodeVacancies(items []Item) *Vacancies {
	var vacancies []*Vacancy

	cfg := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &vacancies,
		TagName:  "json",
	}
	decoder, _ := mapstructure.NewDecoder(cfg)
	if err := decoder.Decode(items); err != nil {
		c.logger.Warn("decoding vacancy items", zap.Error(err))
	}

	return &Vacancies{
		Items: vacancies,
	}
}
