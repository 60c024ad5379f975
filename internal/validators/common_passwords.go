package validators

// commonPasswords is the deny-list consulted by PasswordPolicy.
// It holds the most frequent entries from public breach corpora;
// membership is checked against the lowercased password.
var commonPasswords = map[string]struct{}{}

func init() {
	for _, p := range commonPasswordList {
		commonPasswords[p] = struct{}{}
	}
}

var commonPasswordList = []string{
	"123456", "123456789", "12345678", "password", "qwerty123",
	"qwerty1", "111111", "12345", "secret", "123123",
	"1234567890", "1234567", "000000", "qwerty", "abc123",
	"password1", "iloveyou", "11111111", "dragon", "monkey",
	"123321", "654321", "superman", "1qaz2wsx", "baseball",
	"football", "letmein", "shadow", "master", "666666",
	"qwertyuiop", "121212", "1q2w3e4r", "555555", "lovely",
	"7777777", "welcome", "888888", "princess", "sunshine",
	"michael", "computer", "jesus", "ninja", "mustang",
	"password123", "passw0rd", "starwars", "trustno1", "whatever",
	"charlie", "freedom", "jordan", "harley", "hunter",
	"batman", "zaq12wsx", "access", "flower", "555666",
	"pass123", "admin123", "azerty", "solo", "loveme",
	"summer", "internet", "hello123", "banana", "killer",
	"george", "asdfgh", "pepper", "zxcvbnm", "qazwsx",
	"michelle", "daniel", "ashley", "nicole", "chelsea",
	"biteme", "matthew", "andrew", "black", "tigger",
	"pokemon", "william", "jessica", "london", "samsung",
	"111222", "123qwe", "1q2w3e", "aaaaaa", "abcd1234",
	"696969", "112233", "987654321", "0987654321",
	"p@ssw0rd", "welcome1", "changeme", "letmein1", "test123",
}
