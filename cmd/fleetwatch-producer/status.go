// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bureau-foundation/fleetwatch/lib/codec"
	"github.com/bureau-foundation/fleetwatch/lib/producer"
	"github.com/bureau-foundation/fleetwatch/lib/version"
)

// agentStatus is one agent's entry in the /health response.
type agentStatus struct {
	InstanceID string         `json:"instance_id"`
	AppName    string         `json:"app_name"`
	AppType    string         `json:"app_type"`
	State      string         `json:"state"`
	Stats      producer.Stats `json:"stats"`
}

// statusResponse is the body of /health and /ready.
type statusResponse struct {
	Status  string        `json:"status"`
	Service string        `json:"service"`
	Version string        `json:"version"`
	Agents  []agentStatus `json:"agents"`
}

// newStatusHandler serves the producer process's probe and scrape
// endpoints. /health is 200 while any agent is still alive; /ready is
// 200 only once every agent is running.
func newStatusHandler(agents []*producer.Agent, metrics *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(writer http.ResponseWriter, request *http.Request) {
		response := collectStatus(agents)
		status := http.StatusOK
		response.Status = "healthy"
		if countInState(agents, producer.StateStopped) == len(agents) {
			status = http.StatusServiceUnavailable
			response.Status = "stopped"
		}
		writeStatus(writer, request, status, response)
	})
	mux.HandleFunc("GET /ready", func(writer http.ResponseWriter, request *http.Request) {
		response := collectStatus(agents)
		status := http.StatusOK
		response.Status = "ready"
		if countInState(agents, producer.StateRunning) != len(agents) {
			status = http.StatusServiceUnavailable
			response.Status = "not_ready"
		}
		writeStatus(writer, request, status, response)
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics, promhttp.HandlerOpts{}))
	return mux
}

func collectStatus(agents []*producer.Agent) statusResponse {
	response := statusResponse{
		Service: "fleetwatch-producer",
		Version: version.Short(),
		Agents:  make([]agentStatus, 0, len(agents)),
	}
	for _, agent := range agents {
		registration := agent.Registration()
		response.Agents = append(response.Agents, agentStatus{
			InstanceID: registration.InstanceID,
			AppName:    registration.AppName,
			AppType:    string(registration.AppType),
			State:      agent.State().String(),
			Stats:      agent.Stats(),
		})
	}
	return response
}

func countInState(agents []*producer.Agent, state producer.State) int {
	count := 0
	for _, agent := range agents {
		if agent.State() == state {
			count++
		}
	}
	return count
}

func writeStatus(writer http.ResponseWriter, request *http.Request, status int, body statusResponse) {
	format := codec.FormatFromAccept(request.Header.Get("Accept"))
	data, err := codec.Marshal(format, body)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", format.MediaType())
	writer.WriteHeader(status)
	writer.Write(data)
}
