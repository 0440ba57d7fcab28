/*
 *     Copyright 2022 The Dragonfly Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"d7y.io/renderfarm/version"
)

const (
	MetricsNamespace   = "renderfarm"
	ManagerMetricsName = "manager"
)

// Variables declared for metrics.
var (
	SubmitJobCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: ManagerMetricsName,
		Name:      "submit_job_total",
		Help:      "Counter of the number of the submitted job.",
	}, []string{"type"})

	SubmitJobFailureCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: ManagerMetricsName,
		Name:      "submit_job_failure_total",
		Help:      "Counter of the number of failed of the submitted job.",
	}, []string{"type"})

	AssignTaskCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: ManagerMetricsName,
		Name:      "assign_task_total",
		Help:      "Counter of the number of the assigned task.",
	})

	RequeueTaskCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: ManagerMetricsName,
		Name:      "requeue_task_total",
		Help:      "Counter of the number of the requeued task.",
	})

	SoftFailTaskCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: ManagerMetricsName,
		Name:      "soft_fail_task_total",
		Help:      "Counter of the number of the task failures that requeued the task.",
	})

	TimeoutTaskCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: ManagerMetricsName,
		Name:      "timeout_task_total",
		Help:      "Counter of the number of the timed out task.",
	})

	BlocklistWorkerCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: ManagerMetricsName,
		Name:      "blocklist_worker_total",
		Help:      "Counter of the number of the workers added to a job blocklist.",
	})

	FinishTaskCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: ManagerMetricsName,
		Name:      "finish_task_total",
		Help:      "Counter of the number of the finished task.",
	}, []string{"status"})

	WorkerStatusChangeCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: ManagerMetricsName,
		Name:      "worker_status_change_total",
		Help:      "Counter of the number of the worker status change.",
	}, []string{"from", "to"})

	InvalidTransitionCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: ManagerMetricsName,
		Name:      "invalid_transition_total",
		Help:      "Counter of the number of the rejected worker status change.",
	})

	QueuedTaskGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Subsystem: ManagerMetricsName,
		Name:      "queued_task",
		Help:      "Gauge of the number of the queued task.",
	})

	VersionGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Subsystem: ManagerMetricsName,
		Name:      "version",
		Help:      "Version info of the service.",
	}, []string{"major", "minor", "git_version", "git_commit", "platform", "build_time", "go_version"})
)

// Handler returns the prometheus exposition handler and records the version.
func Handler() http.Handler {
	VersionGauge.WithLabelValues(version.Major, version.Minor, version.GitVersion, version.GitCommit, version.Platform, version.BuildTime, version.GoVersion).Set(1)
	return promhttp.Handler()
}
