package utils

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

// RandomInt32 生成一个安全的随机32位整数
func RandomInt32() int32 {
	var num int32
	err := binary.Read(rand.Reader, binary.BigEndian, &num)
	if err != nil {
		panic("generate random int32 failed")
	}

	return num
}

// randomIntn 生成 [0, n) 范围内的安全随机整数。
// 用掩码清除符号位，取负最小值会溢出。
func randomIntn(n int) int {
	num := RandomInt32() & 0x7FFFFFFF
	return int(num) % n
}

// GenerateKioskID 生成信息亭编号，格式: K + 三位数字(100-999) + 大写字母 + 数字 + Y + 数字
// 例如: K123A4Y5
func GenerateKioskID() string {
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	return fmt.Sprintf("K%d%c%dY%d",
		100+randomIntn(900),
		letters[randomIntn(len(letters))],
		randomIntn(10),
		randomIntn(10))
}

// GenerateRoomKey 生成房间分组标识，同一房间在所有信息亭下共享该标识
func GenerateRoomKey() string {
	const alphanum = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = alphanum[randomIntn(len(alphanum))]
	}
	return fmt.Sprintf("room_%d_%s", time.Now().UnixMilli(), string(suffix))
}

// GenerateSessionID 生成会话标识
func GenerateSessionID() string {
	const alphanum = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 8)
	for i := range suffix {
		suffix[i] = alphanum[randomIntn(len(alphanum))]
	}
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), string(suffix))
}
