package sync

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
)

// tokenNamespace matches the storefront's cart-recovery controller, which
// validates token_cart against the same derivation.
const tokenNamespace = "recover_cart_"

// RecoveryToken derives the deterministic token that authorizes a checkout
// recovery link for the cart. The same cart always yields the same token;
// forging one requires the site secret.
func (s *Service) RecoveryToken(cartID int64) string {
	sum := md5.Sum([]byte(s.secret + tokenNamespace + strconv.FormatInt(cartID, 10)))
	return hex.EncodeToString(sum[:])
}

func (s *Service) checkoutURL(cartID int64) string {
	return fmt.Sprintf("%s/order?step=3&recover_cart=%d&token_cart=%s", s.base, cartID, s.RecoveryToken(cartID))
}
