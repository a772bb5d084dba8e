// Package weather requests forecasts for a coordinate from a Dark Sky style API.
//
// The request path embeds the API key and the coordinate key, so responses are cached by
// the fetcher like any other page. Bodies are decoded strictly as JSON; anything that
// does not decode is reported as a *PayloadError.
package weather
