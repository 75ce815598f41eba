package common

import (
	"encoding/binary"
	"encoding/hex"
	"sync"

	"golang.org/x/crypto/blake2b"
)

var (
	hashKey   []byte
	hashKeyMu sync.RWMutex
)

// SetHashSalt задаёт ключ для HashUserID (LOG_HASH_SALT).
// BLAKE2b принимает ключ до 64 байт, длинная соль обрезается.
func SetHashSalt(salt string) {
	key := []byte(salt)
	if len(key) > blake2b.Size {
		key = key[:blake2b.Size]
	}

	hashKeyMu.Lock()
	defer hashKeyMu.Unlock()
	hashKey = key
}

// HashUserID возвращает короткий keyed-хеш идентификатора пользователя.
// В логах пишем его вместо настоящего user_id.
func HashUserID(userID int64) string {
	hashKeyMu.RLock()
	key := hashKey
	hashKeyMu.RUnlock()

	h, err := blake2b.New(8, key)
	if err != nil {
		// ключ длиннее 64 байт отсекается в SetHashSalt
		return "????????"
	}

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(userID))
	h.Write(buf[:])
	return hex.EncodeToString(h.Sum(nil))
}
