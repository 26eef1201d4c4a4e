package registry

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joshuapare/regkit/internal/store"
	"github.com/joshuapare/regkit/pkg/regpath"
	"github.com/joshuapare/regkit/pkg/types"
)

// Client runs list, create, put and delete operations against one store.
// Items of a batch are processed strictly in order; nothing runs in
// parallel and nothing is cached.
type Client struct {
	st      store.Store
	reader  *Reader
	writer  *Writer
	deleter *Deleter
	log     *slog.Logger
	policy  Policy
}

func newClient(st store.Store, opts ...Option) *Client {
	c := defaultClient()
	for _, opt := range opts {
		opt(c)
	}
	c.st = st
	c.reader = NewReader(st, c.log)
	c.writer = NewWriter(st, c.log)
	c.deleter = NewDeleter(st, c.log)
	return c
}

// Close releases the underlying store.
func (c *Client) Close() error {
	return c.st.Close()
}

// Policy returns the default policy of the variadic calls.
func (c *Client) Policy() Policy {
	return c.policy
}

func identity(s string) string { return s }

func requestAddress(r types.PutRequest) string { return r.Address }

// batchLog tags every record of one batch with a fresh id.
func (c *Client) batchLog(op string, policy Policy, n int) *slog.Logger {
	return c.log.With("batch", uuid.NewString(), "op", op, "policy", policy.String(), "items", n)
}

func logOutcomes[T any](ctx context.Context, log *slog.Logger, outcomes []Outcome[T], policy Policy) {
	for _, o := range Failed(outcomes) {
		if policy == BestEffort {
			log.WarnContext(ctx, "item skipped", "address", o.Address, "err", o.Err)
		} else {
			log.DebugContext(ctx, "batch aborted", "address", o.Address, "err", o.Err)
		}
	}
	log.DebugContext(ctx, "batch done", "attempted", len(outcomes))
}

// -----------------------------------------------------------------------------
// List
// -----------------------------------------------------------------------------

func (c *Client) listOne(ctx context.Context, address string) (types.KeySnapshot, error) {
	addr, err := regpath.Resolve(address)
	if err != nil {
		return types.KeySnapshot{}, err
	}
	snap, err := c.reader.Read(ctx, addr)
	if err != nil {
		return types.KeySnapshot{}, err
	}
	snap.Path = address
	return snap, nil
}

// List returns a snapshot of one key. A missing key yields Exists false
// and no error.
func (c *Client) List(ctx context.Context, address string) (types.KeySnapshot, error) {
	return c.listOne(ctx, address)
}

// ListOutcomes lists every address and returns one Outcome per address,
// leaving aggregation to the caller.
func (c *Client) ListOutcomes(ctx context.Context, addresses []string) []Outcome[types.KeySnapshot] {
	return Run(ctx, addresses, identity, c.listOne)
}

// ListAll lists every address under policy and returns snapshots keyed by
// the address strings as given.
func (c *Client) ListAll(ctx context.Context, addresses []string, policy Policy) (map[string]types.KeySnapshot, error) {
	log := c.batchLog("list", policy, len(addresses))
	outcomes := RunPolicy(ctx, policy, addresses, identity, c.listOne)
	logOutcomes(ctx, log, outcomes, policy)

	ok, err := Collect(outcomes, policy)
	if err != nil {
		return nil, err
	}
	result := make(map[string]types.KeySnapshot, len(ok))
	for _, o := range ok {
		result[o.Address] = o.Value
	}
	return result, nil
}

// Exists reports whether the key at address exists.
func (c *Client) Exists(ctx context.Context, address string) (bool, error) {
	snap, err := c.listOne(ctx, address)
	if err != nil {
		return false, err
	}
	return snap.Exists, nil
}

// -----------------------------------------------------------------------------
// Create
// -----------------------------------------------------------------------------

func (c *Client) createOne(ctx context.Context, address string) (struct{}, error) {
	addr, err := regpath.Resolve(address)
	if err != nil {
		return struct{}{}, err
	}
	return struct{}{}, c.writer.Create(ctx, addr)
}

// Create creates every key, with missing parents, under the client's
// default policy.
func (c *Client) Create(ctx context.Context, addresses ...string) error {
	_, err := c.CreateAll(ctx, addresses, c.policy)
	return err
}

// CreateAll creates every key under policy and returns the addresses that
// were created or already existed.
func (c *Client) CreateAll(ctx context.Context, addresses []string, policy Policy) ([]string, error) {
	log := c.batchLog("create", policy, len(addresses))
	outcomes := RunPolicy(ctx, policy, addresses, identity, c.createOne)
	logOutcomes(ctx, log, outcomes, policy)
	return addressesOf(Collect(outcomes, policy))
}

// -----------------------------------------------------------------------------
// Put
// -----------------------------------------------------------------------------

func (c *Client) putOne(ctx context.Context, req types.PutRequest) (struct{}, error) {
	return struct{}{}, c.writer.Write(ctx, req)
}

// Put applies every request under the client's default policy.
func (c *Client) Put(ctx context.Context, requests ...types.PutRequest) error {
	_, err := c.PutAll(ctx, requests, c.policy)
	return err
}

// PutValues writes values, in order, into the key at address.
func (c *Client) PutValues(ctx context.Context, address string, values ...types.ValueRecord) error {
	return c.writer.Write(ctx, types.PutRequest{Address: address, Values: values})
}

// PutAll applies requests in order under policy and returns the addresses
// of the requests that were fully applied. A request that fails part way
// keeps the values set before the failure.
func (c *Client) PutAll(ctx context.Context, requests []types.PutRequest, policy Policy) ([]string, error) {
	log := c.batchLog("put", policy, len(requests))
	outcomes := RunPolicy(ctx, policy, requests, requestAddress, c.putOne)
	logOutcomes(ctx, log, outcomes, policy)
	return addressesOf(Collect(outcomes, policy))
}

// -----------------------------------------------------------------------------
// Delete
// -----------------------------------------------------------------------------

func (c *Client) deleteOne(ctx context.Context, address string) (struct{}, error) {
	addr, err := regpath.Resolve(address)
	if err != nil {
		return struct{}{}, err
	}
	return struct{}{}, c.deleter.Delete(ctx, addr)
}

// Delete removes every key tree under the client's default policy.
func (c *Client) Delete(ctx context.Context, addresses ...string) error {
	_, err := c.DeleteAll(ctx, addresses, c.policy)
	return err
}

// DeleteAll removes every key tree under policy and returns the addresses
// that were deleted. A missing key counts as a failure.
func (c *Client) DeleteAll(ctx context.Context, addresses []string, policy Policy) ([]string, error) {
	log := c.batchLog("delete", policy, len(addresses))
	outcomes := RunPolicy(ctx, policy, addresses, identity, c.deleteOne)
	logOutcomes(ctx, log, outcomes, policy)
	return addressesOf(Collect(outcomes, policy))
}

func addressesOf[T any](outcomes []Outcome[T], err error) ([]string, error) {
	if err != nil {
		return nil, err
	}
	addrs := make([]string, len(outcomes))
	for i, o := range outcomes {
		addrs[i] = o.Address
	}
	return addrs, nil
}
