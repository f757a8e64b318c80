package resume

// vocabulary is matched case-insensitively against resume words.
var vocabulary = []string{
	// programming languages
	"python", "java", "javascript", "typescript", "c++", "c#", "ruby", "go",
	"golang", "rust", "swift", "kotlin", "php", "scala", "perl", "r", "matlab",
	"dart", "lua", "objective-c", "shell", "bash", "powershell", "groovy",
	"haskell", "elixir", "clojure", "erlang", "fortran", "cobol", "assembly",
	"vhdl", "verilog",
	// web frontend
	"html", "css", "react", "reactjs", "react.js", "angular", "angularjs",
	"vue", "vuejs", "vue.js", "svelte", "nextjs", "next.js", "nuxt", "nuxtjs",
	"gatsby", "jquery", "bootstrap", "tailwind", "tailwindcss", "sass", "scss",
	"less", "webpack", "vite", "rollup", "parcel", "babel", "eslint",
	"prettier", "storybook", "material-ui", "mui", "chakra-ui", "ant-design",
	"redux", "zustand", "mobx", "recoil", "context-api", "graphql",
	// web backend
	"node", "nodejs", "node.js", "express", "expressjs", "fastapi", "flask",
	"django", "spring", "spring-boot", "springboot", "asp.net", "rails",
	"ruby-on-rails", "laravel", "gin", "fiber", "fastify", "nestjs", "nest.js",
	"koa", "hapi", "strapi", "prisma",
	// databases
	"sql", "mysql", "postgresql", "postgres", "mongodb", "redis",
	"elasticsearch", "cassandra", "dynamodb", "firebase", "firestore",
	"supabase", "sqlite", "oracle", "sql-server", "mariadb", "couchdb", "neo4j",
	"influxdb", "timescaledb", "cockroachdb",
	// cloud & devops
	"aws", "azure", "gcp", "google-cloud", "heroku", "vercel", "netlify",
	"digitalocean", "linode", "cloudflare", "docker", "kubernetes", "k8s",
	"terraform", "ansible", "jenkins", "github-actions", "gitlab-ci",
	"circleci", "travis-ci", "argo-cd", "helm", "istio", "nginx", "apache",
	"caddy",
	// data science & ml
	"machine-learning", "deep-learning", "tensorflow", "pytorch", "keras",
	"scikit-learn", "sklearn", "pandas", "numpy", "scipy", "matplotlib",
	"seaborn", "plotly", "jupyter", "notebook", "anaconda", "opencv",
	"computer-vision", "nlp", "natural-language-processing", "bert", "gpt",
	"transformer", "huggingface", "langchain", "llm", "generative-ai",
	"data-science", "data-analysis", "data-engineering", "spark", "pyspark",
	"hadoop", "airflow", "kafka", "flink", "dbt", "snowflake", "databricks",
	"tableau", "power-bi", "looker",
	// mobile
	"android", "ios", "react-native", "flutter", "xamarin", "ionic", "swiftui",
	"jetpack-compose", "expo",
	// testing
	"jest", "mocha", "chai", "cypress", "selenium", "playwright", "puppeteer",
	"junit", "pytest", "unittest", "rspec", "testng", "postman", "insomnia",
	// tools & others
	"git", "github", "gitlab", "bitbucket", "jira", "confluence", "slack",
	"figma", "sketch", "adobe-xd", "photoshop", "illustrator", "rest",
	"restful", "api", "microservices", "serverless", "websocket", "grpc",
	"oauth", "jwt", "ssl", "tls", "ci-cd", "agile", "scrum", "kanban", "tdd",
	"bdd", "solid", "design-patterns", "oop", "functional-programming",
	"system-design", "dsa", "data-structures", "algorithms", "linux", "unix",
	"windows-server",
	// blockchain
	"blockchain", "solidity", "ethereum", "web3", "smart-contracts", "defi",
	"nft", "hardhat", "truffle", "metamask",
	// security
	"cybersecurity", "penetration-testing", "owasp", "encryption",
	"authentication", "authorization", "sso", "ldap", "active-directory",
}
