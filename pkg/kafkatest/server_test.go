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

package kafkatest

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type fakeCoordination struct {
	events    *[]string
	failStart bool
}

func (f *fakeCoordination) Start(ctx context.Context) error {
	if f.failStart {
		return errors.New("coordination start failed")
	}
	*f.events = append(*f.events, "coordination start")
	return nil
}

func (f *fakeCoordination) ConnectString() string {
	return "127.0.0.1:21810"
}

func (f *fakeCoordination) BrokerConnectString() string {
	return "zookeeper:2181"
}

func (f *fakeCoordination) Port() int {
	return 21810
}

func (f *fakeCoordination) Close() error {
	*f.events = append(*f.events, "coordination close")
	return nil
}

type fakeBroker struct {
	events              *[]string
	failStart           bool
	coordinationConnect string
}

func (f *fakeBroker) Start(ctx context.Context, coordinationConnect string) error {
	if f.failStart {
		return errors.New("broker start failed")
	}
	f.coordinationConnect = coordinationConnect
	*f.events = append(*f.events, "broker start")
	return nil
}

func (f *fakeBroker) ConnectString() string {
	return "127.0.0.1:39092"
}

func (f *fakeBroker) Port() int {
	return 39092
}

func (f *fakeBroker) Close() error {
	*f.events = append(*f.events, "broker close")
	return nil
}

func newFakeServer(failCoordination bool, failBroker bool) (*TestServer, *[]string, *fakeBroker) {
	events := &[]string{}
	coordination := &fakeCoordination{events: events, failStart: failCoordination}
	brokerService := &fakeBroker{events: events, failStart: failBroker}
	return NewCustomTestServer(nil, coordination, brokerService), events, brokerService
}

func TestStartOrderAndConnectStrings(t *testing.T) {
	server, events, brokerService := newFakeServer(false, false)
	err := server.Start(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, []string{"coordination start", "broker start"}, *events)
	assert.Equal(t, "zookeeper:2181", brokerService.coordinationConnect)
	assert.Equal(t, "127.0.0.1:39092", server.KafkaConnectString())
	assert.Equal(t, "127.0.0.1:21810", server.ZookeeperConnectString())
	assert.NotEqual(t, server.KafkaConnectString(), server.ZookeeperConnectString())
}

func TestCloseReverseOrderAndIdempotent(t *testing.T) {
	server, events, _ := newFakeServer(false, false)
	err := server.Start(context.Background())
	assert.Nil(t, err)
	err = server.Close()
	assert.Nil(t, err)
	assert.Equal(t, []string{"coordination start", "broker start", "broker close", "coordination close"}, *events)
	err = server.Close()
	assert.Nil(t, err)
	assert.Len(t, *events, 4)
}

func TestShutdownAliasOfClose(t *testing.T) {
	server, events, _ := newFakeServer(false, false)
	err := server.Start(context.Background())
	assert.Nil(t, err)
	err = server.Shutdown()
	assert.Nil(t, err)
	assert.Equal(t, []string{"coordination start", "broker start", "broker close", "coordination close"}, *events)
	assert.Panics(t, func() {
		server.KafkaConnectString()
	})
	assert.Panics(t, func() {
		server.ZookeeperConnectString()
	})
}

func TestCloseAfterBrokerStartFailure(t *testing.T) {
	server, events, _ := newFakeServer(false, true)
	err := server.Start(context.Background())
	assert.NotNil(t, err)
	assert.Equal(t, []string{"coordination start"}, *events)
	err = server.Close()
	assert.Nil(t, err)
	assert.Equal(t, []string{"coordination start", "broker close", "coordination close"}, *events)
	err = server.Close()
	assert.Nil(t, err)
	assert.Len(t, *events, 3)
}

func TestCloseAfterCoordinationStartFailure(t *testing.T) {
	server, events, _ := newFakeServer(true, false)
	err := server.Start(context.Background())
	assert.NotNil(t, err)
	assert.Empty(t, *events)
	err = server.Close()
	assert.Nil(t, err)
	assert.Equal(t, []string{"broker close", "coordination close"}, *events)
}

func TestConnectStringsPanicBeforeStart(t *testing.T) {
	server, _, _ := newFakeServer(false, false)
	assert.Panics(t, func() {
		server.KafkaConnectString()
	})
	assert.Panics(t, func() {
		server.ZookeeperConnectString()
	})
}
