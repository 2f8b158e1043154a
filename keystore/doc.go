// Package keystore persists VAPID application server keys between runs.
//
// A [FileStore] writes the serialized keys as JSON with owner-only
// permissions. A [SealedStore] envelope-encrypts the same JSON with a
// gocloud.dev secrets keeper before it reaches disk:
//
//	store, err := keystore.Open(ctx, "vapid.json", "base64key://...")
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	keys, created, err := keystore.LoadOrGenerate(ctx, store, nil)
//
// Keeper URLs follow gocloud.dev conventions. Only the local base64key://
// driver is registered by this package; import another driver (awskms,
// gcpkms, ...) in the main package to use a cloud KMS.
package keystore
