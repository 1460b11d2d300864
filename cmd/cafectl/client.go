package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type searchArgs struct {
	query   string
	radius  int
	lat     float64
	lng     float64
	hasGeo  bool
	tags    []string
	sortBy  string
	rating  float64
	openNow bool
}

func runSearch(apiURL string, a searchArgs, out io.Writer) error {
	payload := map[string]interface{}{}
	if a.query != "" {
		payload["query"] = a.query
	}
	if a.radius > 0 {
		payload["radius"] = a.radius
	}
	if a.hasGeo {
		payload["geolocation"] = map[string]float64{"lat": a.lat, "lng": a.lng}
	}
	if len(a.tags) > 0 {
		payload["tags"] = a.tags
	}
	if a.sortBy != "" {
		payload["sortBy"] = a.sortBy
	}
	if a.rating > 0 {
		payload["rating"] = a.rating
	}
	if a.openNow {
		payload["openNow"] = true
	}

	body, _ := json.Marshal(payload)
	resp, err := http.Post(apiURL+"/cafes/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}
	_, err = io.Copy(out, resp.Body)
	return err
}

func runPing(apiURL, cafeID string, rating float64, tags []string, out io.Writer) error {
	payload := map[string]interface{}{
		"cafeId": cafeID,
		"rating": rating,
	}
	if len(tags) > 0 {
		payload["tags"] = tags
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequest(http.MethodPut, apiURL+"/cafes/ping", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}
	_, err = io.Copy(out, resp.Body)
	return err
}

func runHealth(apiURL string, out io.Writer) error {
	resp, err := http.Get(apiURL + "/health")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, err = io.Copy(out, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service unhealthy (http %d)", resp.StatusCode)
	}
	return err
}
