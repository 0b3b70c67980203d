package load

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gocql/gocql"
)

// CassandraConfig holds the connection settings of a CassandraSource.
type CassandraConfig struct {
	Hosts       []string
	Port        int
	Username    string
	Password    string
	Consistency string        // defaults to LOCAL_QUORUM.
	Timeout     time.Duration // per query, defaults to 10s.
	// Attempts bounds how many times connecting and reading the
	// metadata snapshot are tried before giving up. Defaults to 3.
	Attempts int
	// Backoff is the initial delay between attempts; it doubles up to MaxBackoff.
	Backoff    time.Duration
	MaxBackoff time.Duration
	Logger     *slog.Logger
}

// CassandraSource reads keyspace metadata from system_schema tables.
type CassandraSource struct {
	session *gocql.Session
	cfg     CassandraConfig
	log     *slog.Logger
}

// NewCassandraSource connects to the cluster described by cfg.
// Connection failures are retried with bounded exponential backoff.
func NewCassandraSource(ctx context.Context, cfg CassandraConfig) (*CassandraSource, error) {
	if len(cfg.Hosts) == 0 {
		return nil, errors.New("load: at least one cassandra host is required")
	}
	cfg = cfg.withDefaults()
	consistency, err := gocql.ParseConsistencyWrapper(cfg.Consistency)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	cluster := gocql.NewCluster(cfg.Hosts...)
	if cfg.Port != 0 {
		cluster.Port = cfg.Port
	}
	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}
	cluster.Consistency = consistency
	cluster.Timeout = cfg.Timeout
	cluster.ConnectTimeout = cfg.Timeout
	cluster.RetryPolicy = &gocql.ExponentialBackoffRetryPolicy{
		NumRetries: cfg.Attempts - 1,
		Min:        cfg.Backoff,
		Max:        cfg.MaxBackoff,
	}
	cluster.ReconnectionPolicy = &gocql.ExponentialReconnectionPolicy{
		MaxRetries:      cfg.Attempts,
		InitialInterval: time.Second,
		MaxInterval:     time.Second,
	}
	s := &CassandraSource{cfg: cfg, log: cfg.Logger}
	err = retry(ctx, cfg, "connect", func() error {
		session, err := cluster.CreateSession()
		if err != nil {
			return err
		}
		s.session = session
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load: connect to cassandra: %w", err)
	}
	return s, nil
}

func (c CassandraConfig) withDefaults() CassandraConfig {
	if c.Consistency == "" {
		c.Consistency = "LOCAL_QUORUM"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Attempts <= 0 {
		c.Attempts = 3
	}
	if c.Backoff <= 0 {
		c.Backoff = 250 * time.Millisecond
	}
	if c.MaxBackoff < c.Backoff {
		c.MaxBackoff = 4 * c.Backoff
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Close releases the underlying session.
func (s *CassandraSource) Close() {
	if s.session != nil {
		s.session.Close()
	}
}

// Keyspace implements Source.
func (s *CassandraSource) Keyspace(ctx context.Context, name string) (*Keyspace, error) {
	var ks *Keyspace
	err := retry(ctx, s.cfg, "read keyspace "+name, func() (err error) {
		ks, err = s.readKeyspace(ctx, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := ks.Validate(); err != nil {
		return nil, err
	}
	return ks, nil
}

func (s *CassandraSource) readKeyspace(ctx context.Context, name string) (*Keyspace, error) {
	var found string
	err := s.session.Query(`SELECT keyspace_name FROM system_schema.keyspaces WHERE keyspace_name = ?`, name).
		WithContext(ctx).Scan(&found)
	switch {
	case errors.Is(err, gocql.ErrNotFound):
		return nil, fmt.Errorf("%w: %q", ErrKeyspaceNotFound, name)
	case err != nil:
		return nil, fmt.Errorf("load: lookup keyspace %q: %w", name, err)
	}
	ks := &Keyspace{Name: name}
	if ks.Types, err = s.readTypes(ctx, name); err != nil {
		return nil, err
	}
	if ks.Tables, err = s.readTables(ctx, name); err != nil {
		return nil, err
	}
	s.log.Debug("read keyspace metadata", "keyspace", name, "types", len(ks.Types), "tables", len(ks.Tables))
	return ks, nil
}

func (s *CassandraSource) readTypes(ctx context.Context, keyspace string) ([]*UserType, error) {
	var (
		types      []*UserType
		typeName   string
		fieldNames []string
		fieldTypes []string
	)
	iter := s.session.Query(`SELECT type_name, field_names, field_types FROM system_schema.types WHERE keyspace_name = ?`, keyspace).
		WithContext(ctx).Iter()
	for iter.Scan(&typeName, &fieldNames, &fieldTypes) {
		if len(fieldNames) != len(fieldTypes) {
			_ = iter.Close()
			return nil, fmt.Errorf("load: user type %s.%s: %d field names but %d field types", keyspace, typeName, len(fieldNames), len(fieldTypes))
		}
		t := &UserType{Name: typeName}
		for i := range fieldNames {
			t.Fields = append(t.Fields, &UserTypeField{Name: fieldNames[i], Type: fieldTypes[i]})
		}
		types = append(types, t)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("load: read user types of %q: %w", keyspace, err)
	}
	return types, nil
}

func (s *CassandraSource) readTables(ctx context.Context, keyspace string) ([]*Table, error) {
	var (
		tables    []*Table
		byName    = make(map[string]*Table)
		tableName string
		comment   string
	)
	iter := s.session.Query(`SELECT table_name, comment FROM system_schema.tables WHERE keyspace_name = ?`, keyspace).
		WithContext(ctx).Iter()
	for iter.Scan(&tableName, &comment) {
		t := &Table{Name: tableName, Comment: comment}
		tables = append(tables, t)
		byName[tableName] = t
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("load: read tables of %q: %w", keyspace, err)
	}
	var (
		columnName, typ, kind, order string
		position                     int
	)
	iter = s.session.Query(`SELECT table_name, column_name, type, kind, position, clustering_order FROM system_schema.columns WHERE keyspace_name = ?`, keyspace).
		WithContext(ctx).Iter()
	for iter.Scan(&tableName, &columnName, &typ, &kind, &position, &order) {
		t, ok := byName[tableName]
		if !ok {
			// Columns of materialized views live in the same table.
			continue
		}
		t.Columns = append(t.Columns, &Column{
			Name:            columnName,
			Type:            typ,
			Kind:            ColumnKind(kind),
			Position:        position,
			ClusteringOrder: order,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("load: read columns of %q: %w", keyspace, err)
	}
	return tables, nil
}

// retry runs fn up to cfg.Attempts times, doubling the delay between
// attempts up to cfg.MaxBackoff. A missing keyspace and context
// cancellation are terminal.
func retry(ctx context.Context, cfg CassandraConfig, op string, fn func() error) error {
	delay := cfg.Backoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt >= cfg.Attempts || errors.Is(err, ErrKeyspaceNotFound) || ctx.Err() != nil {
			return err
		}
		cfg.Logger.Warn("cassandra operation failed, retrying", "op", op, "attempt", attempt, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(delay):
		}
		delay = min(2*delay, cfg.MaxBackoff)
	}
}
