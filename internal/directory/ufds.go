package directory

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/go-ldap/ldap"
	"github.com/nagyistge/manta-madtom/internal/model"
	"github.com/sirupsen/logrus"
)

const (
	datacentersBase = "o=smartdc"
	usersBase       = "ou=users, o=smartdc"
)

// ldapConn is the part of *ldap.Conn UFDS uses.
type ldapConn interface {
	Bind(username, password string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	Close()
}

// UFDSOptions locates and authenticates to the identity directory.
type UFDSOptions struct {
	URL          string
	BindDN       string
	BindPassword string
	Insecure     bool
	Timeout      time.Duration
	Logger       logrus.FieldLogger
	Observer     RequestObserver
}

// UFDS is a client for the SDC identity directory, an LDAP server holding
// users and the datacenters of every region. It connects on first use and
// keeps the connection until Close.
type UFDS struct {
	opts UFDSOptions
	dial func() (ldapConn, error)

	mu   sync.Mutex
	conn ldapConn
}

func NewUFDS(opts UFDSOptions) *UFDS {
	u := &UFDS{opts: opts}
	u.dial = u.dialLDAP
	return u
}

func (u *UFDS) dialLDAP() (ldapConn, error) {
	target, err := url.Parse(u.opts.URL)
	if err != nil {
		return nil, err
	}
	var conn *ldap.Conn
	if target.Scheme == "ldaps" {
		host, port, err := net.SplitHostPort(target.Host)
		if err != nil {
			host = target.Host
			port = ldap.DefaultLdapsPort
		}
		conn, err = ldap.DialTLS("tcp", net.JoinHostPort(host, port), &tls.Config{
			ServerName:         host,
			InsecureSkipVerify: u.opts.Insecure, //nolint:gosec // user-configured
		})
		if err != nil {
			return nil, err
		}
	} else {
		conn, err = ldap.DialURL(u.opts.URL)
		if err != nil {
			return nil, err
		}
	}
	if u.opts.Timeout > 0 {
		conn.SetTimeout(u.opts.Timeout)
	}
	return conn, nil
}

func (u *UFDS) connect() (ldapConn, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.conn != nil {
		return u.conn, nil
	}
	conn, err := u.dial()
	if err != nil {
		return nil, u.fault("Connect", err)
	}
	if u.opts.BindDN != "" {
		if err := conn.Bind(u.opts.BindDN, u.opts.BindPassword); err != nil {
			conn.Close()
			return nil, u.fault("Bind", err)
		}
	}
	u.logger().WithField("url", u.opts.URL).Debug("connected to ufds")
	u.conn = conn
	return conn, nil
}

// Close drops the directory connection, if any.
func (u *UFDS) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.conn != nil {
		u.conn.Close()
		u.conn = nil
	}
}

func (u *UFDS) logger() logrus.FieldLogger {
	if u.opts.Logger != nil {
		return u.opts.Logger
	}
	return logrus.StandardLogger()
}

func (u *UFDS) fault(op string, err error) *Fault {
	return &Fault{
		Service:   "ufds",
		Op:        op,
		URL:       u.opts.URL,
		Err:       err,
		transient: connectionLost(err) || ldap.IsErrorWithCode(err, ldap.ErrorNetwork),
	}
}

func (u *UFDS) search(ctx context.Context, op, base, filter string, attrs []string) (entries []*ldap.Entry, err error) {
	start := time.Now()
	defer func() {
		if u.opts.Observer != nil {
			u.opts.Observer.ObserveRequest("ufds", op, time.Since(start), err)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, u.fault(op, err)
	}
	conn, err := u.connect()
	if err != nil {
		return nil, err
	}

	u.logger().WithFields(logrus.Fields{"base": base, "filter": filter}).Debug("ufds search")
	req := ldap.NewSearchRequest(
		base,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		filter,
		attrs,
		nil)
	resp, err := conn.Search(req)
	if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
		return nil, nil
	}
	if err != nil {
		return nil, u.fault(op, err)
	}
	return resp.Entries, nil
}

// ListDatacenters returns every datacenter record registered under region,
// duplicates included, in directory order.
func (u *UFDS) ListDatacenters(ctx context.Context, region string) ([]model.Datacenter, error) {
	filter := fmt.Sprintf("(&(objectclass=datacenter)(region=%s))", ldap.EscapeFilter(region))
	entries, err := u.search(ctx, "ListDatacenters", datacentersBase, filter, []string{"datacenter", "region"})
	if err != nil {
		return nil, err
	}
	dcs := make([]model.Datacenter, 0, len(entries))
	for _, e := range entries {
		name := e.GetAttributeValue("datacenter")
		if name == "" {
			continue
		}
		dcs = append(dcs, model.Datacenter{Name: name})
	}
	return dcs, nil
}

// GetUser looks a user up by login or uuid.
func (u *UFDS) GetUser(ctx context.Context, login string) (*model.User, error) {
	esc := ldap.EscapeFilter(login)
	filter := fmt.Sprintf("(&(objectclass=sdcperson)(|(login=%s)(uuid=%s)))", esc, esc)
	entries, err := u.search(ctx, "GetUser", usersBase, filter, []string{"uuid", "login"})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("ufds user %q: %w", login, ErrNotFound)
	}
	return &model.User{
		UUID:  entries[0].GetAttributeValue("uuid"),
		Login: entries[0].GetAttributeValue("login"),
	}, nil
}
