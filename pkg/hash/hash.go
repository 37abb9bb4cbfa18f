package hash

import "golang.org/x/crypto/bcrypt"

// Password 生成密码的 bcrypt 摘要
func Password(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify 校验明文密码与摘要是否匹配
func Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
