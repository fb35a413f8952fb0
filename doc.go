// Package privy provides a Go client SDK for the Privy server wallet API.
//
// Requests that act on a wallet's keys are signed with an authorization key
// over a canonical JSON form of the request. Wallet export uses HPKE
// (DHKEM(P-256, HKDF-SHA256), HKDF-SHA256, ChaCha20-Poly1305): the client
// generates a one-time recipient key, and the wallet secret is decrypted
// locally. Key material never leaves the process in plaintext.
//
// Basic usage:
//
//	client, err := privy.New(appID, appSecret,
//	    privy.WithAuthorizationKey("wallet-auth:MIGHAgEAMBMG..."),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Export a wallet's private key
//	secret, err := client.Wallets.Export(ctx, walletID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Per-call signing:
//
//	authCtx := privy.NewAuthorizationContextBuilder().
//	    AddAuthorizationKey(key).
//	    Build()
//	secret, err := client.Wallets.Export(ctx, walletID,
//	    privy.WithRequestAuthorization(authCtx))
package privy
