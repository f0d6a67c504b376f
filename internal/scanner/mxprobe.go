package scanner

import (
	"fmt"
	"math/rand"
	"net"
	"net/smtp"
	"time"
)

const mxProbeTimeout = 5 * time.Second

// randomProbeLocalPart returns a local-part that cannot plausibly
// already be registered at permDomain, used to test whether an MX
// server accepts mail for arbitrary local-parts (a catch-all /
// open-relay signal).
func randomProbeLocalPart() string {
	return fmt.Sprintf("dnstwist-probe-%x", rand.Int63())
}

// probeCatchAll connects to a permutation's MX host and performs
// EHLO, MAIL FROM <...@seedHost>, and RCPT TO <...@permDomain>,
// mirroring the original's __mxcheck(mx, from=seed, to=permutation):
// this tests whether the permutation's mail server will accept mail
// addressed to itself, impersonating the seed domain as sender. The
// exchange stops strictly before DATA: no message body is ever
// transmitted, per spec.md's non-goal against active exploitation.
func probeCatchAll(mxHost, seedHost, permDomain string) (bool, error) {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(mxHost, "25"), mxProbeTimeout)
	if err != nil {
		return false, err
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(mxProbeTimeout))

	client, err := smtp.NewClient(conn, mxHost)
	if err != nil {
		return false, err
	}
	defer client.Close()

	if err := client.Hello(seedHost); err != nil {
		return false, err
	}
	if err := client.Mail(fmt.Sprintf("%s@%s", randomProbeLocalPart(), seedHost)); err != nil {
		return false, err
	}
	rcptErr := client.Rcpt(fmt.Sprintf("%s@%s", randomProbeLocalPart(), permDomain))

	// Always Quit; never call Data.
	_ = client.Quit()

	return rcptErr == nil, nil
}
