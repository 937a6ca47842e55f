// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fullnode

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/counter"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/sized"
)

const (
	rateLimitNode  = 50
	rateBurstNode  = 20
	defaultTimeout = 30 * time.Second
)

// Configuration - how to reach the node's RPC port
//
// the node authenticates clients with the private CA certificates
// from its config/ssl/full_node directory
type Configuration struct {
	URL             string `gluamapper:"url" json:"url"`
	CertificateFile string `gluamapper:"certificate" json:"certificate"`
	KeyFile         string `gluamapper:"key" json:"key"`
	CAFile          string `gluamapper:"ca" json:"ca"`
	Timeout         string `gluamapper:"timeout" json:"timeout"`
}

// Client - JSON RPC client of a full node
type Client struct {
	log      *logger.L
	url      string
	client   *http.Client
	limiter  *rate.Limiter
	requests counter.Set
}

var _ Gateway = (*Client)(nil)

// New - create a client from the configuration
func New(log *logger.L, conf Configuration) (*Client, error) {
	if "" == conf.URL {
		return nil, fault.ErrRequiredConnect
	}

	timeout := defaultTimeout
	if "" != conf.Timeout {
		d, err := time.ParseDuration(conf.Timeout)
		if nil != err {
			return nil, err
		}
		timeout = d
	}

	transport := &http.Transport{}
	if strings.HasPrefix(conf.URL, "https:") {
		tlsConfig, err := tlsConfiguration(conf)
		if nil != err {
			return nil, err
		}
		transport.TLSClientConfig = tlsConfig
	}

	return NewWithHTTPClient(log, conf.URL, &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}), nil
}

// NewWithHTTPClient - create a client using an existing HTTP client
func NewWithHTTPClient(log *logger.L, url string, client *http.Client) *Client {
	return &Client{
		log:     log,
		url:     strings.TrimSuffix(url, "/"),
		client:  client,
		limiter: rate.NewLimiter(rateLimitNode, rateBurstNode),
	}
}

func tlsConfiguration(conf Configuration) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if "" != conf.CertificateFile || "" != conf.KeyFile {
		certificate, err := tls.LoadX509KeyPair(conf.CertificateFile, conf.KeyFile)
		if nil != err {
			return nil, err
		}
		tlsConfig.Certificates = []tls.Certificate{certificate}
	}

	if "" != conf.CAFile {
		pem, err := ioutil.ReadFile(conf.CAFile)
		if nil != err {
			return nil, err
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates in: %q", conf.CAFile)
		}
		tlsConfig.RootCAs = pool

		// node certificates are issued for "chia.net" by a private CA
		tlsConfig.ServerName = "chia.net"
	}
	return tlsConfig, nil
}

// Requests - number of RPC calls made
func (c *Client) Requests() uint64 {
	return c.requests.Total()
}

// RequestsByEndpoint - number of RPC calls made to each endpoint
func (c *Client) RequestsByEndpoint() map[string]uint64 {
	return c.requests.Snapshot()
}

// common part of every response
type response struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// high level call, reply must embed a response
func (c *Client) call(ctx context.Context, endpoint string, arguments interface{}, reply interface{}) (*response, error) {
	if err := c.limiter.Wait(ctx); nil != err {
		return nil, err
	}
	c.requests.Increment(endpoint)

	s, err := json.Marshal(arguments)
	if nil != err {
		return nil, err
	}
	c.log.Tracef("%s send: %s", endpoint, s)

	request, err := http.NewRequest("POST", c.url+"/"+endpoint, bytes.NewBuffer(s))
	if nil != err {
		return nil, err
	}
	request = request.WithContext(ctx)
	request.Header.Set("Content-Type", "application/json")

	r, err := c.client.Do(request)
	if nil != err {
		c.log.Debugf("%s error: %s", endpoint, err)
		if nil != ctx.Err() {
			return nil, ctx.Err()
		}
		return nil, errors.Wrapf(fault.ErrNodeRequestFailed, "%s: %s", endpoint, err)
	}
	defer r.Body.Close()

	body, err := ioutil.ReadAll(r.Body)
	if nil != err {
		return nil, errors.Wrapf(fault.ErrNodeRequestFailed, "%s: %s", endpoint, err)
	}
	c.log.Tracef("%s response body: %s", endpoint, body)

	if http.StatusOK != r.StatusCode {
		return nil, errors.Wrapf(fault.ErrNodeRequestFailed, "%s: status: %d %q", endpoint, r.StatusCode, r.Status)
	}

	status := &response{}
	if err := json.Unmarshal(body, status); nil != err {
		return nil, errors.Wrapf(fault.ErrNodeRequestFailed, "%s: %s", endpoint, err)
	}
	if !status.Success {
		return status, nil
	}
	if err := json.Unmarshal(body, reply); nil != err {
		return nil, errors.Wrapf(fault.ErrNodeRequestFailed, "%s: %s", endpoint, err)
	}
	return status, nil
}

func unsuccessful(endpoint string, r *response) error {
	return errors.Wrapf(fault.ErrNodeResponseUnsuccessful, "%s: %s", endpoint, r.Error)
}

// GetCoinRecordByName - single coin record
func (c *Client) GetCoinRecordByName(ctx context.Context, name sized.Bytes32) (*coin.CoinRecord, error) {
	arguments := struct {
		Name sized.Bytes32 `json:"name"`
	}{
		Name: name,
	}
	reply := struct {
		CoinRecord *coin.CoinRecord `json:"coin_record"`
	}{}

	r, err := c.call(ctx, "get_coin_record_by_name", &arguments, &reply)
	if nil != err {
		return nil, err
	}
	if !r.Success {
		// unknown coins are reported as a failed request
		if strings.Contains(strings.ToLower(r.Error), "not found") {
			return nil, nil
		}
		return nil, unsuccessful("get_coin_record_by_name", r)
	}
	return reply.CoinRecord, nil
}

// GetCoinSpend - puzzle and solution of a spent coin
func (c *Client) GetCoinSpend(ctx context.Context, record *coin.CoinRecord) (*coin.CoinSpend, error) {
	arguments := struct {
		CoinID sized.Bytes32 `json:"coin_id"`
		Height uint32        `json:"height"`
	}{
		CoinID: record.Name(),
		Height: record.SpentBlockIndex,
	}
	reply := struct {
		CoinSolution *coin.CoinSpend `json:"coin_solution"`
	}{}

	r, err := c.call(ctx, "get_puzzle_and_solution", &arguments, &reply)
	if nil != err {
		return nil, err
	}
	if !r.Success {
		return nil, errors.Wrapf(fault.ErrSpendNotFound, "%s: %s", record.Name(), r.Error)
	}
	if nil == reply.CoinSolution {
		return nil, errors.Wrapf(fault.ErrSpendNotFound, "%s", record.Name())
	}
	return reply.CoinSolution, nil
}

// GetCoinRecordsByPuzzleHashes - coins locked by any of the puzzle hashes
func (c *Client) GetCoinRecordsByPuzzleHashes(ctx context.Context, puzzleHashes []sized.Bytes32, includeSpent bool, startHeight uint32, endHeight uint32) ([]coin.CoinRecord, error) {
	arguments := struct {
		PuzzleHashes      []sized.Bytes32 `json:"puzzle_hashes"`
		IncludeSpentCoins bool            `json:"include_spent_coins"`
		StartHeight       uint32          `json:"start_height,omitempty"`
		EndHeight         uint32          `json:"end_height,omitempty"`
	}{
		PuzzleHashes:      puzzleHashes,
		IncludeSpentCoins: includeSpent,
		StartHeight:       startHeight,
		EndHeight:         endHeight,
	}
	reply := struct {
		CoinRecords []coin.CoinRecord `json:"coin_records"`
	}{}

	r, err := c.call(ctx, "get_coin_records_by_puzzle_hashes", &arguments, &reply)
	if nil != err {
		return nil, err
	}
	if !r.Success {
		return nil, unsuccessful("get_coin_records_by_puzzle_hashes", r)
	}
	return reply.CoinRecords, nil
}

// PushTx - submit a bundle to the mempool
//
// a request the node refuses is reported as FAILED, not as an error
func (c *Client) PushTx(ctx context.Context, bundle *coin.SpendBundle) (TxStatus, error) {
	arguments := struct {
		SpendBundle *coin.SpendBundle `json:"spend_bundle"`
	}{
		SpendBundle: bundle,
	}
	reply := struct {
		Status TxStatus `json:"status"`
	}{}

	r, err := c.call(ctx, "push_tx", &arguments, &reply)
	if nil != err {
		return 0, err
	}
	if !r.Success {
		c.log.Warnf("push_tx: %s refused: %s", bundle.Name(), r.Error)
		return TxFailed, nil
	}
	return reply.Status, nil
}

// GetBlockchainState - peak, sync status and network space
func (c *Client) GetBlockchainState(ctx context.Context) (*BlockchainState, error) {
	reply := struct {
		BlockchainState *BlockchainState `json:"blockchain_state"`
	}{}

	r, err := c.call(ctx, "get_blockchain_state", struct{}{}, &reply)
	if nil != err {
		return nil, err
	}
	if !r.Success {
		return nil, unsuccessful("get_blockchain_state", r)
	}
	if nil == reply.BlockchainState {
		return nil, errors.Wrap(fault.ErrNodeResponseUnsuccessful, "get_blockchain_state: empty")
	}
	return reply.BlockchainState, nil
}
