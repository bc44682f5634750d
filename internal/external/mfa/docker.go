// Package mfa launches and drives a Montreal-Forced-Aligner container as
// the forced-alignment adapter, managing its Docker lifecycle (ping,
// status lookup, create-and-start, health poll, stop).
package mfa

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"

	"github.com/jackzampolin/audiobook-master/internal/perr"
)

const (
	DefaultImage         = "mmcauliffe/montreal-forced-aligner:latest"
	DefaultContainerName = "masterctl-mfa"
	DefaultPort          = "8765"
	ContainerPort        = "8765/tcp"
	CorpusDir            = "/corpus"
	Label                = "masterctl-mfa"
)

// Status represents the state of the MFA container.
type Status string

const (
	StatusRunning  Status = "running"
	StatusStopped  Status = "stopped"
	StatusNotFound Status = "not_found"
	StatusStarting Status = "starting"
)

// Manager manages the Montreal-Forced-Aligner container lifecycle.
type Manager struct {
	cli           *client.Client
	containerName string
	imageName     string
	hostPort      string
	labels        map[string]string
}

// Config configures a Manager.
type Config struct {
	ContainerName string
	Image         string
	HostPort      string
}

// NewManager creates a Docker-backed MFA manager.
func NewManager(cfg Config) (*Manager, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("mfa: create docker client: %w", err)
	}

	if cfg.ContainerName == "" {
		cfg.ContainerName = DefaultContainerName
	}
	if cfg.Image == "" {
		cfg.Image = DefaultImage
	}
	if cfg.HostPort == "" {
		cfg.HostPort = DefaultPort
	}

	return &Manager{
		cli:           cli,
		containerName: cfg.ContainerName,
		imageName:     cfg.Image,
		hostPort:      cfg.HostPort,
		labels:        map[string]string{Label: "true"},
	}, nil
}

// Close closes the Docker client.
func (m *Manager) Close() error {
	return m.cli.Close()
}

// URL returns the MFA service's HTTP address.
func (m *Manager) URL() string {
	return fmt.Sprintf("http://localhost:%s", m.hostPort)
}

// Ensure starts the container if it is not already running, blocking until
// its health check passes.
func (m *Manager) Ensure(ctx context.Context) error {
	if _, err := m.cli.Ping(ctx); err != nil {
		return perr.Wrap(perr.KindExternal, "mfa", fmt.Errorf("docker not running: %w", err))
	}

	status, id, err := m.status(ctx)
	if err != nil {
		return perr.Wrap(perr.KindExternal, "mfa", err)
	}

	switch status {
	case StatusRunning:
		return nil
	case StatusStopped:
		if err := m.cli.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
			return perr.Wrap(perr.KindExternal, "mfa", fmt.Errorf("start existing container: %w", err))
		}
	case StatusNotFound:
		if err := m.createAndStart(ctx); err != nil {
			return perr.Wrap(perr.KindExternal, "mfa", err)
		}
		return nil
	}
	if err := m.waitForReady(ctx, 60*time.Second); err != nil {
		return perr.Wrap(perr.KindExternal, "mfa", err)
	}
	return nil
}

// Stop stops the MFA container.
func (m *Manager) Stop(ctx context.Context) error {
	status, id, err := m.status(ctx)
	if err != nil {
		return err
	}
	if status == StatusNotFound {
		return nil
	}
	timeout := 10
	return m.cli.ContainerStop(ctx, id, container.StopOptions{Timeout: &timeout})
}

func (m *Manager) createAndStart(ctx context.Context) error {
	if err := m.ensureImage(ctx); err != nil {
		return err
	}

	containerConfig := &container.Config{
		Image:        m.imageName,
		Cmd:          []string{"server", "--port", m.hostPort, "--corpus-dir", CorpusDir},
		Labels:       m.labels,
		ExposedPorts: nat.PortSet{ContainerPort: struct{}{}},
		Healthcheck: &container.HealthConfig{
			Test:        []string{"CMD", "curl", "-sf", "http://localhost:" + m.hostPort + "/health"},
			Interval:    2 * time.Second,
			Timeout:     5 * time.Second,
			Retries:     10,
			StartPeriod: 5 * time.Second,
		},
	}

	hostConfig := &container.HostConfig{
		PortBindings: nat.PortMap{
			ContainerPort: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: m.hostPort}},
		},
	}

	resp, err := m.cli.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, m.containerName)
	if err != nil {
		return fmt.Errorf("create container: %w", err)
	}
	if err := m.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		_ = m.cli.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return fmt.Errorf("start container: %w", err)
	}
	return m.waitForReady(ctx, 60*time.Second)
}

// Status reports the container's current lifecycle state.
func (m *Manager) Status(ctx context.Context) (Status, error) {
	status, _, err := m.status(ctx)
	return status, err
}

func (m *Manager) status(ctx context.Context) (Status, string, error) {
	args := filters.NewArgs()
	args.Add("name", m.containerName)

	containers, err := m.cli.ContainerList(ctx, container.ListOptions{All: true, Filters: args})
	if err != nil {
		return "", "", fmt.Errorf("list containers: %w", err)
	}
	if len(containers) == 0 {
		return StatusNotFound, "", nil
	}
	c := containers[0]
	switch c.State {
	case "running":
		return StatusRunning, c.ID, nil
	case "exited", "dead":
		return StatusStopped, c.ID, nil
	default:
		return StatusStarting, c.ID, nil
	}
}

func (m *Manager) waitForReady(ctx context.Context, timeout time.Duration) error {
	httpClient := &http.Client{Timeout: 2 * time.Second}
	url := m.URL() + "/health"

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			resp, err := httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unhealthy status: %d", resp.StatusCode)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(timeout.Seconds())),
		retry.Delay(1*time.Second),
	)
}

func (m *Manager) ensureImage(ctx context.Context) error {
	if _, err := m.cli.ImageInspect(ctx, m.imageName); err == nil {
		return nil
	}
	reader, err := m.cli.ImagePull(ctx, m.imageName, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull image: %w", err)
	}
	defer reader.Close()
	_, err = io.Copy(io.Discard, reader)
	return err
}

// bindMount builds a bind mount of hostDir at containerDir. Nothing calls
// it: the long-lived container that createAndStart launches has no mounts.
func bindMount(hostDir, containerDir string) mount.Mount {
	return mount.Mount{Type: mount.TypeBind, Source: hostDir, Target: containerDir}
}
