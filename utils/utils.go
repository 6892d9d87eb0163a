package utils

// ToCmdLine 把字符串参数转为二进制参数序列
func ToCmdLine(cmd ...string) [][]byte {
	args := make([][]byte, len(cmd))
	for i, arg := range cmd {
		args[i] = []byte(arg)
	}
	return args
}

// ToCmdLine2 首参数为命令名 其余为参数
func ToCmdLine2[T string | []byte](cmdName string, args ...T) [][]byte {
	result := make([][]byte, len(args)+1)
	result[0] = []byte(cmdName)
	for i, arg := range args {
		result[i+1] = []byte(arg)
	}
	return result
}
