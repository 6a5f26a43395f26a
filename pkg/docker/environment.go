// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package docker is the thin docker engine layer used to run the test
// servers. One Environment per harness instance: it owns one API client and
// one bridge network so that containers of independent harnesses never see
// each other.
package docker

import (
	"context"
	"io"
	"strconv"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Environment struct {
	cli         *client.Client
	networkId   string
	networkName string
}

func NewEnvironment(ctx context.Context, networkName string) (*Environment, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, errors.Wrap(err, "create docker client")
	}
	resp, err := cli.NetworkCreate(ctx, networkName, types.NetworkCreate{Driver: "bridge"})
	if err != nil {
		_ = cli.Close()
		return nil, errors.Wrapf(err, "create docker network %s", networkName)
	}
	return &Environment{cli: cli, networkId: resp.ID, networkName: networkName}, nil
}

func (e *Environment) NetworkName() string {
	return e.networkName
}

// ContainerSpec describes one container to run: a single exposed port is
// published on the loopback interface, HostPort "0" lets the OS assign it.
type ContainerSpec struct {
	Image        string
	Name         string
	NetworkAlias string
	Env          []string
	ExposedPort  nat.Port
	HostPort     string
}

func (e *Environment) EnsureImage(ctx context.Context, image string) error {
	_, _, err := e.cli.ImageInspectWithRaw(ctx, image)
	if err == nil {
		return nil
	}
	if !client.IsErrNotFound(err) {
		return errors.Wrapf(err, "inspect image %s", image)
	}
	logrus.Infof("pulling image %s", image)
	reader, err := e.cli.ImagePull(ctx, image, types.ImagePullOptions{})
	if err != nil {
		return errors.Wrapf(err, "pull image %s", image)
	}
	defer reader.Close()
	if _, err = io.Copy(io.Discard, reader); err != nil {
		return errors.Wrapf(err, "pull image %s", image)
	}
	return nil
}

func (e *Environment) RunContainer(ctx context.Context, spec *ContainerSpec) (string, error) {
	if err := e.EnsureImage(ctx, spec.Image); err != nil {
		return "", err
	}
	containerConfig := &container.Config{
		Image:        spec.Image,
		Env:          spec.Env,
		ExposedPorts: nat.PortSet{spec.ExposedPort: struct{}{}},
	}
	hostConfig := &container.HostConfig{
		NetworkMode: container.NetworkMode(e.networkName),
		PortBindings: nat.PortMap{
			spec.ExposedPort: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: spec.HostPort}},
		},
	}
	networkingConfig := &network.NetworkingConfig{
		EndpointsConfig: map[string]*network.EndpointSettings{
			e.networkName: {Aliases: []string{spec.NetworkAlias}},
		},
	}
	created, err := e.cli.ContainerCreate(ctx, containerConfig, hostConfig, networkingConfig, nil, spec.Name)
	if err != nil {
		return "", errors.Wrapf(err, "create container %s", spec.Name)
	}
	if err = e.cli.ContainerStart(ctx, created.ID, types.ContainerStartOptions{}); err != nil {
		_ = e.RemoveContainer(created.ID)
		return "", errors.Wrapf(err, "start container %s", spec.Name)
	}
	return created.ID, nil
}

// MappedPort reads back the host port a container port was published on.
func (e *Environment) MappedPort(ctx context.Context, containerId string, port nat.Port) (int, error) {
	inspect, err := e.cli.ContainerInspect(ctx, containerId)
	if err != nil {
		return 0, errors.Wrapf(err, "inspect container %s", containerId)
	}
	bindings := inspect.NetworkSettings.Ports[port]
	if len(bindings) == 0 {
		return 0, errors.Errorf("no host binding for port %s on container %s", port, containerId)
	}
	hostPort, err := strconv.Atoi(bindings[0].HostPort)
	if err != nil {
		return 0, errors.Wrapf(err, "parse host port %s", bindings[0].HostPort)
	}
	return hostPort, nil
}

func (e *Environment) RemoveContainer(containerId string) error {
	err := e.cli.ContainerRemove(context.Background(), containerId, types.ContainerRemoveOptions{
		Force:         true,
		RemoveVolumes: true,
	})
	return errors.Wrapf(err, "remove container %s", containerId)
}

func (e *Environment) Close() error {
	var firstErr error
	if e.networkId != "" {
		if err := e.cli.NetworkRemove(context.Background(), e.networkId); err != nil {
			firstErr = errors.Wrapf(err, "remove docker network %s", e.networkName)
		}
		e.networkId = ""
	}
	if err := e.cli.Close(); err != nil && firstErr == nil {
		firstErr = errors.Wrap(err, "close docker client")
	}
	return firstErr
}
