package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"agri-report-workers/internal/common/config"
	commonhttp "agri-report-workers/internal/common/http"
	"agri-report-workers/internal/models"
)

const openWeatherProvider = "openweathermap"

// OpenWeather reads current, historical and forecast weather from OpenWeatherMap.
type OpenWeather struct {
	http    *commonhttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
}

func NewOpenWeather(cfg config.EndpointConfig) *OpenWeather {
	timeout := endpointTimeout(cfg.Timeout)
	return &OpenWeather{
		http:    commonhttp.NewClient(timeout),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		timeout: timeout,
	}
}

type owmCurrent struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type owmTimeMachine struct {
	Current *struct {
		Temp      float64 `json:"temp"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
		Clouds    float64 `json:"clouds"`
		WindSpeed float64 `json:"wind_speed"`
	} `json:"current"`
}

type owmForecast struct {
	List []struct {
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Rain json.RawMessage `json:"rain,omitempty"`
		Snow json.RawMessage `json:"snow,omitempty"`
	} `json:"list"`
}

func (o *OpenWeather) Current(ctx context.Context, loc models.Location) (models.WeatherObservation, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var resp owmCurrent
	err := o.http.GetJSON(ctx, o.endpoint("weather", loc, nil), &resp)
	if err := wrapError(openWeatherProvider, err); err != nil {
		return models.WeatherObservation{}, err
	}
	return models.WeatherObservation{
		Temperature: resp.Main.Temp,
		Humidity:    resp.Main.Humidity,
		Pressure:    resp.Main.Pressure,
		Clouds:      resp.Clouds.All,
		WindSpeed:   resp.Wind.Speed,
	}, nil
}

func (o *OpenWeather) Historical(ctx context.Context, loc models.Location, at time.Time) (models.WeatherObservation, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var resp owmTimeMachine
	extra := url.Values{"dt": {strconv.FormatInt(at.Unix(), 10)}}
	err := o.http.GetJSON(ctx, o.endpoint("onecall/timemachine", loc, extra), &resp)
	if err == nil && resp.Current == nil {
		err = fmt.Errorf("timemachine response has no current block")
	}
	if err := wrapError(openWeatherProvider, err); err != nil {
		return models.WeatherObservation{}, err
	}
	return models.WeatherObservation{
		Temperature: resp.Current.Temp,
		Humidity:    resp.Current.Humidity,
		Pressure:    resp.Current.Pressure,
		Clouds:      resp.Current.Clouds,
		WindSpeed:   resp.Current.WindSpeed,
	}, nil
}

func (o *OpenWeather) Forecast(ctx context.Context, loc models.Location, days int) ([]models.ForecastDay, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var resp owmForecast
	extra := url.Values{"cnt": {strconv.Itoa(days)}}
	err := o.http.GetJSON(ctx, o.endpoint("forecast", loc, extra), &resp)
	if err := wrapError(openWeatherProvider, err); err != nil {
		return nil, err
	}

	list := resp.List
	if len(list) > days {
		list = list[:days]
	}
	out := make([]models.ForecastDay, 0, len(list))
	for _, item := range list {
		out = append(out, models.ForecastDay{
			Temperature:   item.Main.Temp,
			Humidity:      item.Main.Humidity,
			Precipitation: present(item.Rain) || present(item.Snow),
		})
	}
	return out, nil
}

func (o *OpenWeather) endpoint(path string, loc models.Location, extra url.Values) string {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	q.Set("appid", o.apiKey)
	q.Set("units", "metric")
	for k, v := range extra {
		q[k] = v
	}
	return o.baseURL + "/" + path + "?" + q.Encode()
}

func present(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s != "" && s != "null" && s != "{}" && s != "0" && s != "false"
}
