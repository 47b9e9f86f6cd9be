package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

const legacyEndpoint = "/webservice/rest/server.php"

type target struct {
	Function string                 `json:"function"`
	Params   map[string]interface{} `json:"params"`
	Critical bool                   `json:"critical"`
}

type targetFile struct {
	Targets []target `json:"targets"`
}

type endpoints struct {
	goBase      string
	goToken     string
	legacyBase  string
	legacyToken string
}

type result struct {
	Target         target
	GoStatus       int
	Match          bool
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

func main() {
	var (
		ep          endpoints
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&ep.goBase, "go-base", "http://localhost:8080/api/v1", "Go API base URL including prefix")
	flag.StringVar(&ep.goToken, "go-token", os.Getenv("SHADOW_GO_TOKEN"), "Bearer token for the Go API")
	flag.StringVar(&ep.legacyBase, "legacy-base", "http://localhost", "Legacy LMS base URL")
	flag.StringVar(&ep.legacyToken, "legacy-token", os.Getenv("SHADOW_LEGACY_TOKEN"), "Web service token for the legacy LMS")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "shadow_compare", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		results      []result
		breaking     int
		optionalDiff int
	)
	for _, t := range targets {
		res := compare(client, ep, t)
		if res.Error != nil || !res.Match {
			if t.Critical {
				breaking++
			} else {
				optionalDiff++
			}
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optionalDiff)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return file.Targets, nil
}

func compare(client *http.Client, ep endpoints, tgt target) result {
	res := result{Target: tgt}

	goBody, goStatus, goDur, err := callGo(client, ep, tgt)
	res.GoStatus = goStatus
	res.DurationGo = goDur
	if err != nil {
		res.Error = fmt.Errorf("go request failed: %w", err)
		return res
	}
	legacyBody, legacyDur, err := callLegacy(client, ep, tgt)
	res.DurationLegacy = legacyDur
	if err != nil {
		res.Error = fmt.Errorf("legacy request failed: %w", err)
		return res
	}

	data, err := unwrapData(goBody)
	if err != nil {
		res.Error = err
		return res
	}
	res.Match = bodiesEqual(data, legacyBody)
	return res
}

func callGo(client *http.Client, ep endpoints, tgt target) ([]byte, int, time.Duration, error) {
	payload, err := json.Marshal(tgt.Params)
	if err != nil {
		return nil, 0, 0, err
	}
	req, err := http.NewRequest(http.MethodPost, strings.TrimRight(ep.goBase, "/")+"/rpc/"+tgt.Function, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if ep.goToken != "" {
		req.Header.Set("Authorization", "Bearer "+ep.goToken)
	}
	body, status, dur, err := do(client, req)
	return body, status, dur, err
}

func callLegacy(client *http.Client, ep endpoints, tgt target) ([]byte, time.Duration, error) {
	form := url.Values{}
	form.Set("wstoken", ep.legacyToken)
	form.Set("wsfunction", tgt.Function)
	form.Set("moodlewsrestformat", "json")
	flattenParams(form, "", tgt.Params)

	req, err := http.NewRequest(http.MethodPost, strings.TrimRight(ep.legacyBase, "/")+legacyEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	body, _, dur, err := do(client, req)
	return body, dur, err
}

func do(client *http.Client, req *http.Request) ([]byte, int, time.Duration, error) {
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, 0, err
	}
	return body, resp.StatusCode, time.Since(start), nil
}

// flattenParams encodes nested parameters the way the legacy REST server expects
// them: lists as name[0], name[1] and objects as name[key].
func flattenParams(form url.Values, prefix string, value interface{}) {
	switch v := value.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			name := k
			if prefix != "" {
				name = prefix + "[" + k + "]"
			}
			flattenParams(form, name, v[k])
		}
	case []interface{}:
		for i, item := range v {
			flattenParams(form, prefix+"["+strconv.Itoa(i)+"]", item)
		}
	case bool:
		if v {
			form.Set(prefix, "1")
		} else {
			form.Set(prefix, "0")
		}
	case float64:
		form.Set(prefix, strconv.FormatFloat(v, 'f', -1, 64))
	case nil:
	default:
		form.Set(prefix, fmt.Sprint(v))
	}
}

func unwrapData(body []byte) ([]byte, error) {
	var envelope struct {
		Data  json.RawMessage `json:"data"`
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode go envelope: %w", err)
	}
	if envelope.Error != nil {
		return nil, fmt.Errorf("go error %s: %s", envelope.Error.Code, envelope.Error.Message)
	}
	return envelope.Data, nil
}

func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	return reflect.DeepEqual(normalize(aj), normalize(bj))
}

// normalize folds the legacy server's loose scalar typing: booleans become 0/1 and
// numeric strings become numbers.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case []interface{}:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	case bool:
		if val {
			return float64(1)
		}
		return float64(0)
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
		return val
	default:
		return val
	}
}

func printReport(results []result) {
	fmt.Println("Shadow Compare Report")
	fmt.Println("======================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.Match {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s\n", status, res.Target.Function)
		fmt.Printf("  Go: %d (%s) | Legacy: %s\n", res.GoStatus, res.DurationGo, res.DurationLegacy)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
		} else {
			fmt.Printf("  Body match: %t | Critical: %t\n", res.Match, res.Target.Critical)
		}
	}
}
